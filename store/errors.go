package store

import "github.com/pkg/errors"

var (
	ErrEmptyKey = errors.New("store: key is empty")
	ErrClosed   = errors.New("store: closed")
)

func errUnknownType(typ string) error {
	return errors.Errorf("store: unknown type %q (want memory|sqlite|badger)", typ)
}
