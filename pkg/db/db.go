// Package db implements key-value store on pebble with prefix iteration.
package db

import (
	"errors"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/ArkHQ/ark-engine/pkg/collection/bytes"
)

var (
	ErrDataNotFound = errors.New("data was not found")
)

type KeyValue interface {
	Key() []byte
	Value() []byte
}

func NewKeyValue(key, value []byte) KeyValue {
	return &keyValue{
		key:   key,
		value: value,
	}
}

type keyValue struct {
	key   []byte
	value []byte
}

func (k *keyValue) Key() []byte {
	return k.key
}

func (k *keyValue) Value() []byte {
	return k.value
}

type DB struct {
	pebbleDB *pebble.DB
}

// NewDB opens or creates the database at path.
func NewDB(path string) (*DB, error) {
	return open(path, &pebble.Options{
		ErrorIfExists: false,
	})
}

// NewInMemoryDB returns new instance of in-memory db.
func NewInMemoryDB() (*DB, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()})
}

func open(path string, options *pebble.Options) (*DB, error) {
	pebbleDB, err := pebble.Open(path, options)
	if err != nil {
		return nil, err
	}
	return &DB{
		pebbleDB: pebbleDB,
	}, nil
}

func (db *DB) Close() error {
	return db.pebbleDB.Close()
}

func (db *DB) Get(key []byte) ([]byte, error) {
	data, closer, err := db.pebbleDB.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrDataNotFound
		}
		return nil, err
	}
	copied := bytes.Copy(data)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return copied, nil
}

func (db *DB) Exist(key []byte) (bool, error) {
	_, err := db.Get(key)
	if errors.Is(err, ErrDataNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *DB) Set(key, value []byte) error {
	return db.pebbleDB.Set(key, value, pebble.Sync)
}

func (db *DB) Del(key []byte) error {
	return db.pebbleDB.Delete(key, pebble.Sync)
}

// Iterate returns key-values with the prefix in key order. limit -1 returns all.
func (db *DB) Iterate(prefix []byte, limit int, reverse bool) ([]KeyValue, error) {
	iter := db.pebbleDB.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	return iterate(iter, limit, reverse)
}

func (db *DB) NewBatch() *Batch {
	return newBatch(db.pebbleDB.NewBatch())
}

func (db *DB) Write(batch *Batch) error {
	return db.pebbleDB.Apply(batch.inner, pebble.Sync)
}
