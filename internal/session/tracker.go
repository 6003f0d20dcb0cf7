package session

import (
	"log/slog"

	"PortfolioChat/internal/store"
)

// IDKey is the storage key holding the backend-assigned session identifier
const IDKey = "chatbot_session_id"

// Tracker reads and writes the session identifier. It never invents one:
// the identifier only ever comes from the backend.
//
// With a nil store every operation is a no-op and GetSessionID returns "",
// which is how the client behaves when no persistent storage is available.
type Tracker struct {
	kv     store.KV
	logger *slog.Logger
}

// NewTracker creates a tracker over kv, which may be nil
func NewTracker(kv store.KV, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{kv: kv, logger: logger}
}

// GetSessionID returns the stored identifier, or "" if there is none
func (t *Tracker) GetSessionID() string {
	if t == nil || t.kv == nil {
		return ""
	}
	id, ok, err := t.kv.Get(IDKey)
	if err != nil {
		t.logger.Warn("failed to read session id", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return id
}

// SaveSessionID replaces the stored identifier
func (t *Tracker) SaveSessionID(id string) {
	if t == nil || t.kv == nil {
		return
	}
	if err := t.kv.Set(IDKey, id); err != nil {
		t.logger.Warn("failed to save session id", "session_id", id, "error", err)
		return
	}
	t.logger.Debug("saved session id", "session_id", id)
}

// ClearSession forgets the stored identifier
func (t *Tracker) ClearSession() {
	if t == nil || t.kv == nil {
		return
	}
	if err := t.kv.Delete(IDKey); err != nil {
		t.logger.Warn("failed to clear session id", "error", err)
		return
	}
	t.logger.Info("cleared session id")
}
