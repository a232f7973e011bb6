package gemini

import "testing"

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if client := NewClient(Config{}); client != nil {
		t.Fatal("expected nil client without an api key")
	}
	if client := NewClient(Config{APIKey: "  "}); client != nil {
		t.Fatal("expected nil client for a blank api key")
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{APIKey: "test-key", BaseURL: defaultBaseURL + "/"})
	if client == nil {
		t.Fatal("expected a client")
	}
}
