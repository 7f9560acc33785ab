package common

import "time"

// SessionCache holds live per-client objects keyed by string, each with its
// own sliding expiry.
type SessionCache interface {
	Set(key string, value interface{}, ttl time.Duration)

	// Get returns the value and true if present and unexpired
	Get(key string) (interface{}, bool)

	Delete(key string)

	// ItemCount returns the number of entries, possibly including expired
	// ones not yet swept
	ItemCount() int

	// OnEvicted registers fn to run when an entry expires or is deleted
	OnEvicted(fn func(key string, value interface{}))

	Close() error
}
