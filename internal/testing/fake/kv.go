package fake

import (
	"sort"
	"sync"
)

// DB is a fake in-memory implementation of the key/value database.
//
// - implements kv.DB
type DB struct {
	sync.Mutex

	values map[string][]byte

	// BadKeys lists the keys for which Get returns an error.
	BadKeys map[string]struct{}

	ErrScan   error
	ErrSet    error
	ErrDelete error
	ErrClose  error

	Closed bool
}

// NewDB creates a new empty fake database.
func NewDB() *DB {
	return &DB{
		values:  make(map[string][]byte),
		BadKeys: make(map[string]struct{}),
	}
}

// Get implements kv.DB. It returns an error for the bad keys, otherwise the
// stored value or nil.
func (db *DB) Get(key []byte) ([]byte, error) {
	db.Lock()
	defer db.Unlock()

	if _, bad := db.BadKeys[string(key)]; bad {
		return nil, fakeErr
	}

	return db.values[string(key)], nil
}

// Set implements kv.DB.
func (db *DB) Set(key, value []byte) error {
	if db.ErrSet != nil {
		return db.ErrSet
	}

	db.Lock()
	db.values[string(key)] = value
	db.Unlock()

	return nil
}

// Delete implements kv.DB.
func (db *DB) Delete(key []byte) error {
	if db.ErrDelete != nil {
		return db.ErrDelete
	}

	db.Lock()
	delete(db.values, string(key))
	db.Unlock()

	return nil
}

// Scan implements kv.DB. It iterates over the keys in lexicographic order.
func (db *DB) Scan(fn func(key []byte) error) error {
	if db.ErrScan != nil {
		return db.ErrScan
	}

	db.Lock()
	keys := make([]string, 0, len(db.values))
	for key := range db.values {
		keys = append(keys, key)
	}
	db.Unlock()

	sort.Strings(keys)

	for _, key := range keys {
		err := fn([]byte(key))
		if err != nil {
			return err
		}
	}

	return nil
}

// Close implements kv.DB.
func (db *DB) Close() error {
	db.Lock()
	db.Closed = true
	db.Unlock()

	return db.ErrClose
}

// Len returns the number of stored keys.
func (db *DB) Len() int {
	db.Lock()
	defer db.Unlock()

	return len(db.values)
}
