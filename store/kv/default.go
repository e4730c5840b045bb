package kv

import (
	"os"

	"go.etcd.io/bbolt"
	"golang.org/x/xerrors"
)

// entriesBucket is the single bucket holding the entries of the collection.
var entriesBucket = []byte("entries")

// boltDB is an adapter of the KV database using bbolt.
//
// - implements kv.DB
type boltDB struct {
	bolt *bbolt.DB
}

// New opens the database at the given path, creating the file if it does not
// exist yet.
func New(path string) (DB, error) {
	db, err := bbolt.Open(path, 0666, &bbolt.Options{})
	if err != nil {
		return nil, xerrors.Errorf("failed to open db: %v", err)
	}

	err = db.Update(func(txn *bbolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists(entriesBucket)
		return err
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to create bucket: %v", err)
	}

	return boltDB{bolt: db}, nil
}

// Destroy irreversibly erases the database stored at the given path. The
// database must be closed beforehand.
func Destroy(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return xerrors.Errorf("failed to destroy db: %v", err)
	}

	return nil
}

// Get implements kv.DB. It returns the value associated to the key, or nil if
// the key is absent.
func (db boltDB) Get(key []byte) ([]byte, error) {
	var value []byte

	err := db.bolt.View(func(txn *bbolt.Tx) error {
		data := txn.Bucket(entriesBucket).Get(key)
		if data != nil {
			value = append([]byte{}, data...)
		}

		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to read key: %v", err)
	}

	return value, nil
}

// Set implements kv.DB. It sets the provided key to the value.
func (db boltDB) Set(key, value []byte) error {
	err := db.bolt.Update(func(txn *bbolt.Tx) error {
		return txn.Bucket(entriesBucket).Put(key, value)
	})
	if err != nil {
		return xerrors.Errorf("failed to write key: %v", err)
	}

	return nil
}

// Delete implements kv.DB. It deletes the key from the database.
func (db boltDB) Delete(key []byte) error {
	err := db.bolt.Update(func(txn *bbolt.Tx) error {
		return txn.Bucket(entriesBucket).Delete(key)
	})
	if err != nil {
		return xerrors.Errorf("failed to delete key: %v", err)
	}

	return nil
}

// Scan implements kv.DB. It iterates over every stored key in lexicographic
// order.
func (db boltDB) Scan(fn func(key []byte) error) error {
	return db.bolt.View(func(txn *bbolt.Tx) error {
		return txn.Bucket(entriesBucket).ForEach(func(k, _ []byte) error {
			err := fn(append([]byte{}, k...))
			if err != nil {
				return xerrors.Errorf("callback failed: %v", err)
			}

			return nil
		})
	})
}

// Close implements kv.DB. It closes the database. Any call will result in an
// error after this function is called.
func (db boltDB) Close() error {
	return db.bolt.Close()
}
