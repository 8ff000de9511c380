package store

// KV is the persistent key-value store backing preferences, favorites and
// recent searches. All values are strings; consumers parse defensively and
// fall back to defaults on corruption.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	// Set writes the value synchronously.
	Set(key, value string) error
	// Delete removes the key; absent keys are not an error.
	Delete(key string) error
}
