// Package kv defines the abstraction of the embedded key/value database that
// backs a persistent collection.
//
// The package also implements a default database using bbolt as the engine
// (https://github.com/etcd-io/bbolt). One database file holds the entries of
// exactly one collection.
package kv

// DB is a general interface to operate over the key/value database of a
// single collection.
type DB interface {
	// Get returns the value stored under the key, or nil if the key does not
	// exist. An error indicates a failure of the engine, not an absent key.
	Get(key []byte) ([]byte, error)

	// Set assigns the value to the provided key.
	Set(key, value []byte) error

	// Delete deletes the key from the database. Deleting an absent key is not
	// an error.
	Delete(key []byte) error

	// Scan iterates over every stored key in an order determined by the
	// engine. The iteration stops when the callback returns an error.
	Scan(fn func(key []byte) error) error

	// Close closes the database and frees the resources. Any call after this
	// function returns will result in an error.
	Close() error
}
