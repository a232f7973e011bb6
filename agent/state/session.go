package state

import (
	"errors"
	"time"

	"github.com/cloudwego/eino/schema"

	profilex "github.com/nycscout/agent/agent/profile"
)

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrNilSession     = errors.New("session is nil")
)

// Session is the per-conversation state: the running chat transcript and the
// current taste-profile snapshot. It is owned by the caller and passed
// explicitly into every turn; there is no process-wide chat handle. The
// caller serializes turns; a new turn must not start while one is in flight.
type Session struct {
	SessionID string

	// History excludes the system prompt; the orchestrator prepends it per
	// request.
	History []*schema.Message

	// Profile is replaced wholesale at the end of a successful turn. Readers
	// holding the previous snapshot are never affected.
	Profile profilex.TasteProfile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a session with the seeded initial profile.
func NewSession(sessionID string, now time.Time) (*Session, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	now = now.UTC()
	return &Session{
		SessionID: sessionID,
		Profile:   profilex.NewProfile(sessionID, now),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Commit publishes the outcome of a completed turn atomically: transcript,
// profile snapshot, and timestamp together. Nothing is published for a turn
// that failed partway.
func (s *Session) Commit(history []*schema.Message, p profilex.TasteProfile, now time.Time) {
	s.History = history
	s.Profile = p
	s.UpdatedAt = now.UTC()
}

// ReplaceProfile swaps in a new profile snapshot outside a model turn, e.g.
// when the caller applies card feedback directly.
func (s *Session) ReplaceProfile(p profilex.TasteProfile, now time.Time) {
	s.Profile = p
	s.UpdatedAt = now.UTC()
}

func (s *Session) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if s.SessionID == "" {
		return ErrInvalidSession
	}
	return nil
}
