// Package store persists the broker session tokens between calls.
package store

import "io"

// Keys under which the session tokens are persisted.
const (
	KeyCST           = "CST"
	KeySecurityToken = "X-SECURITY-TOKEN"
)

// Store is a string key-value store. Get returns "" and no error for a
// key that was never set.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	io.Closer
}

// Open returns the backend named by typ ("memory", "sqlite" or "badger").
func Open(typ, path string) (Store, error) {
	switch typ {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		s, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "badger":
		b, err := NewBadger(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, errUnknownType(typ)
	}
}
