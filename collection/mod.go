// Package collection implements an insertion-ordered key/value container that
// can optionally mirror its content to an embedded key/value database.
//
// A persistent collection loads the entries stored on disk in the background
// after its creation, and it signals the completion with a one-shot readiness
// channel. Mutations always apply to the memory first and the matching disk
// write is spawned without waiting for its completion, which trades the
// durability of the very last writes for a low mutation latency. Only Purge
// waits for the disk, as it is the operation that erases the store.
//
// The container also provides memoized views of its values and keys, sampling
// helpers and the usual traversal combinators (find, filter, sort, reduce and
// friends).
package collection

import (
	"regexp"
	"strings"

	"github.com/kvcoll/kvcoll"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/xerrors"
)

// DefaultDataDir is the directory holding the databases when the
// configuration does not provide one.
const DefaultDataDir = "data"

// Config contains the settings to create a collection.
type Config struct {
	// Persistent requests every entry to be mirrored to the database.
	Persistent bool

	// Name identifies the backing database. It is required when Persistent is
	// set. The name is sanitized to a filesystem-safe token, and two names
	// sanitizing to the same token designate the same database.
	Name string

	// DataDir is the directory holding the databases. It defaults to
	// DefaultDataDir and it is created if it does not exist.
	DataDir string
}

// Entry is a key/value pair of a collection.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Purger is the interface of a value that owns a disk store of its own, so
// that DeleteAll can tear it down alongside the collection.
type Purger interface {
	Purge() error
}

var (
	// ErrMissingName is returned when a persistent collection is requested
	// without a name.
	ErrMissingName = xerrors.New("persistent collection requires a name")

	// ErrInvalidKeyType is returned when a persistent collection is given a
	// key that is neither a string nor an integral number.
	ErrInvalidKeyType = xerrors.New("invalid key type")

	// ErrInvalidCount is returned by the count-bearing read operations when
	// the count is not strictly positive.
	ErrInvalidCount = xerrors.New("count must be strictly positive")

	// ErrMissingMatch is returned by the property-based search operations
	// when no comparison value is provided.
	ErrMissingMatch = xerrors.New("missing comparison value")
)

var notAlphanumeric = regexp.MustCompile("[^a-z0-9]")

// sanitizeName maps a collection name to its filesystem-safe token.
func sanitizeName(name string) string {
	return notAlphanumeric.ReplaceAllString(strings.ToLower(name), "_")
}

// defines prometheus metrics
var (
	promEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kvcoll_collection_entries",
		Help: "current number of entries of a persistent collection",
	}, []string{"collection"})

	promLoadedKeys = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kvcoll_collection_loaded_keys_total",
		Help: "total number of keys loaded from disk",
	}, []string{"collection"})

	promWriteErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kvcoll_collection_write_errors_total",
		Help: "total number of failed background disk writes",
	}, []string{"collection"})
)

func init() {
	kvcoll.PromCollectors = append(kvcoll.PromCollectors,
		promEntries, promLoadedKeys, promWriteErrors)
}
