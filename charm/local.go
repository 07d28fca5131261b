// ABOUTME: BadgerDB-backed store with the same surface as charm/kv.KV
// ABOUTME: Used for offline clients and tests that must not reach a charm server

package charm

import (
	"github.com/dgraph-io/badger/v3"
)

type localKV struct {
	db *badger.DB
}

func (l *localKV) Get(key []byte) ([]byte, error) {
	var result []byte
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	return result, err
}

func (l *localKV) Set(key, value []byte) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (l *localKV) Delete(key []byte) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (l *localKV) Keys() ([][]byte, error) {
	var keys [][]byte
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

// Sync is a no-op; there is no server.
func (l *localKV) Sync() error {
	return nil
}

func (l *localKV) Reset() error {
	return l.db.DropAll()
}
