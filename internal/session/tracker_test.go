package session

import (
	"errors"
	"testing"

	"PortfolioChat/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKV struct{}

func (failingKV) Get(string) (string, bool, error) { return "", false, errors.New("disk on fire") }
func (failingKV) Set(string, string) error          { return errors.New("disk on fire") }
func (failingKV) Delete(string) error               { return errors.New("disk on fire") }
func (failingKV) Close() error                      { return nil }

func TestTracker_Lifecycle(t *testing.T) {
	kv := store.NewMemoryStore()
	tr := NewTracker(kv, nil)

	assert.Equal(t, "", tr.GetSessionID())

	tr.SaveSessionID("abc")
	assert.Equal(t, "abc", tr.GetSessionID())

	raw, ok, err := kv.Get(IDKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", raw)

	tr.SaveSessionID("def")
	assert.Equal(t, "def", tr.GetSessionID())

	tr.ClearSession()
	assert.Equal(t, "", tr.GetSessionID())
}

func TestTracker_NilStoreIsNoop(t *testing.T) {
	tr := NewTracker(nil, nil)

	tr.SaveSessionID("abc")
	assert.Equal(t, "", tr.GetSessionID())
	tr.ClearSession()

	var nilTracker *Tracker
	assert.Equal(t, "", nilTracker.GetSessionID())
	nilTracker.SaveSessionID("x")
	nilTracker.ClearSession()
}

func TestTracker_StoreErrorsAreSwallowed(t *testing.T) {
	tr := NewTracker(failingKV{}, nil)

	tr.SaveSessionID("abc")
	tr.ClearSession()
	assert.Equal(t, "", tr.GetSessionID())
}

func TestMessage_HasTimestamp(t *testing.T) {
	assert.False(t, Message{Role: RoleUser, Content: "hi"}.HasTimestamp())
}
