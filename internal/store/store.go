// Package store provides the client-local key-value storage that holds the
// chat session identifier between runs.
package store

// KV is a small string key-value store.
type KV interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases the underlying resources
	Close() error
}
