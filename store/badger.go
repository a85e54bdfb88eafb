package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// BadgerKV keeps values in an embedded badger database.
type BadgerKV struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger database at path. An empty path
// opens an in-memory database. logger may be nil to silence badger.
func OpenBadger(path string, logger badger.Logger) (*BadgerKV, error) {
	opts := badger.DefaultOptions(path).WithLogger(logger)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerKV{db: db}, nil
}

func (b *BadgerKV) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *BadgerKV) Set(_ context.Context, key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (b *BadgerKV) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *BadgerKV) Close() error {
	return b.db.Close()
}
