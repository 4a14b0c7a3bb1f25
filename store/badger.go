package store

import (
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// Badger stores tokens in an embedded Badger database.
type Badger struct {
	db *badger.DB
}

func NewBadger(path string) (*Badger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: badger path is required")
	}
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrap(err, "open badger")
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(key string) (string, error) {
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return "", ErrEmptyKey
	}
	var out string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if err != nil {
		return "", errors.Wrapf(err, "get %s", key)
	}
	return out, nil
}

func (b *Badger) Set(key, value string) error {
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return ErrEmptyKey
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, []byte(value))
	})
	return errors.Wrapf(err, "set %s", key)
}

func (b *Badger) Close() error {
	return b.db.Close()
}
