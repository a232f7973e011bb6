package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/nycscout/agent/agent/contract"
	profilex "github.com/nycscout/agent/agent/profile"
)

type fakeEmbedder struct {
	lastText string
	vector   []float32
	err      error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeSearcher struct {
	lastEmbedding []float32
	lastThreshold float64
	lastCount     int
	records       []contractx.RestaurantRecord
	err           error
}

func (f *fakeSearcher) Match(_ context.Context, embedding []float32, threshold float64, count int) ([]contractx.RestaurantRecord, error) {
	f.lastEmbedding = embedding
	f.lastThreshold = threshold
	f.lastCount = count
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func testProfile() profilex.TasteProfile {
	return profilex.NewProfile("s1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
}

func TestNewRequiresCollaborators(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, &fakeSearcher{}); err == nil {
		t.Fatal("expected error for nil embedder")
	}
	if _, err := New(&fakeEmbedder{}, nil); err == nil {
		t.Fatal("expected error for nil searcher")
	}
}

func TestSearchBuildsSemanticQuery(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	searcher := &fakeSearcher{records: []contractx.RestaurantRecord{{Name: "Kiki's"}}}
	adapter, err := New(embedder, searcher)
	if err != nil {
		t.Fatal(err)
	}

	adapter.Search(context.Background(), testProfile(), contractx.SearchCriteria{
		Cuisine:      "Thai",
		Neighborhood: "East Village",
		Vibe:         []string{"cozy", "date night"},
		IsViral:      true,
	})

	want := "best Thai food in East Village with cozy date night vibe trending viral spot"
	if embedder.lastText != want {
		t.Fatalf("semantic query = %q, want %q", embedder.lastText, want)
	}
	if searcher.lastThreshold != matchThreshold || searcher.lastCount != matchCount {
		t.Fatalf("match called with threshold %v count %d", searcher.lastThreshold, searcher.lastCount)
	}
}

func TestSearchEmptyCriteriaUsesDefaultQuery(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{vector: []float32{0.1}}
	searcher := &fakeSearcher{records: []contractx.RestaurantRecord{{Name: "Kiki's"}}}
	adapter, _ := New(embedder, searcher)

	adapter.Search(context.Background(), testProfile(), contractx.SearchCriteria{})

	if embedder.lastText != defaultQuery {
		t.Fatalf("semantic query = %q, want %q", embedder.lastText, defaultQuery)
	}
}

func TestSearchFallsBackOnEmbeddingError(t *testing.T) {
	t.Parallel()

	adapter, _ := New(&fakeEmbedder{err: errors.New("quota exceeded")}, &fakeSearcher{})
	got := adapter.Search(context.Background(), testProfile(), contractx.SearchCriteria{Cuisine: "Thai"})

	want := FallbackRestaurants()
	if len(got) != len(want) || got[0].Name != want[0].Name {
		t.Fatalf("expected fallback dataset, got %d results starting with %q", len(got), got[0].Name)
	}
}

func TestSearchFallsBackOnSearchError(t *testing.T) {
	t.Parallel()

	adapter, _ := New(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeSearcher{err: contractx.ErrSearch},
	)
	got := adapter.Search(context.Background(), testProfile(), contractx.SearchCriteria{})

	if len(got) != len(FallbackRestaurants()) {
		t.Fatalf("expected fallback dataset, got %d results", len(got))
	}
}

func TestSearchFallsBackOnEmptyResults(t *testing.T) {
	t.Parallel()

	adapter, _ := New(&fakeEmbedder{vector: []float32{0.1}}, &fakeSearcher{})
	got := adapter.Search(context.Background(), testProfile(), contractx.SearchCriteria{})

	if len(got) != len(FallbackRestaurants()) {
		t.Fatalf("expected fallback dataset, got %d results", len(got))
	}
}

func TestSearchMapsRecordDefaults(t *testing.T) {
	t.Parallel()

	adapter, _ := New(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeSearcher{records: []contractx.RestaurantRecord{{Name: "Sparse Spot"}}},
	)
	got := adapter.Search(context.Background(), testProfile(), contractx.SearchCriteria{})

	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	r := got[0]
	if r.Neighborhood != "NYC" || r.Cuisine != "Various" || r.Price != "$$" || r.Rating != 4.5 {
		t.Fatalf("defaults not applied: %+v", r)
	}
	if len(r.Vibe) != 1 || r.Vibe[0] != "Good Vibes" {
		t.Fatalf("expected default vibe, got %v", r.Vibe)
	}
	if r.Coordinates == nil || r.Coordinates.Lat != 40.73 {
		t.Fatalf("expected default coordinates, got %+v", r.Coordinates)
	}
}

func TestSearchKeepsPopulatedColumns(t *testing.T) {
	t.Parallel()

	rec := contractx.RestaurantRecord{
		Name:            "Win Son",
		Neighborhood:    "East Williamsburg",
		Cuisine:         "Taiwanese-American",
		PriceTier:       "$$",
		Rating:          4.6,
		Vibes:           []string{"Lively", "Trendy"},
		IsViral:         true,
		SignatureDish:   "Big Chicken Bun",
		Description:     "Bold flavors worth the trip",
		WaitTimeTypical: "45+ min",
		BestTimeToGo:    "Weekday dinner",
	}
	adapter, _ := New(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeSearcher{records: []contractx.RestaurantRecord{rec}},
	)
	got := adapter.Search(context.Background(), testProfile(), contractx.SearchCriteria{})

	r := got[0]
	if r.Name != "Win Son" || r.Cuisine != "Taiwanese-American" || !r.IsViral {
		t.Fatalf("populated columns lost: %+v", r)
	}
	if r.WhyForYou != "Bold flavors worth the trip" {
		t.Fatalf("description not mapped: %q", r.WhyForYou)
	}
	if r.WaitTime != "45+ min" || r.BestTime != "Weekday dinner" {
		t.Fatalf("timing columns not mapped: %+v", r)
	}
}
