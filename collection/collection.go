package collection

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/kvcoll/kvcoll"
	"github.com/kvcoll/kvcoll/store/kv"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// Collection is an insertion-ordered key/value container, optionally mirrored
// to an embedded key/value database.
//
// A persistent collection restricts its keys to strings and integral numbers.
// Its disk writes are spawned in the background so a mutation never waits for
// the database; see the package documentation for the trade-off. Callers must
// wait for Ready before mutating a persistent collection, otherwise their
// writes race with the entries loaded from disk.
type Collection[K comparable, V any] struct {
	sync.Mutex

	entries      *orderedMap[K, V]
	cachedValues []V
	cachedKeys   []K

	persistent bool
	name       string
	path       string
	db         kv.DB

	ready     chan struct{}
	readyOnce sync.Once

	// ops queues the background disk writes. A single writer goroutine
	// drains it so the disk sees the mutations in the order they were
	// issued. Close and Purge drain the queue before releasing the handle.
	ops       chan dbop
	drained   chan struct{}
	flushOnce sync.Once
	closeOnce sync.Once
	closeErr  error

	logger zerolog.Logger
}

// dbop is a single queued disk mutation.
type dbop struct {
	key    []byte
	value  []byte
	delete bool
}

// New creates a collection populated with the given entries.
//
// When the configuration requests persistence, the database named after the
// sanitized collection name is opened under the data directory, the entries
// already stored are loaded in the background and the readiness channel is
// closed once the load completes. Otherwise the collection lives purely in
// memory and is ready right away.
func New[K comparable, V any](cfg Config, entries ...Entry[K, V]) (*Collection[K, V], error) {
	c := &Collection[K, V]{
		entries: newOrderedMap[K, V](),
		ready:   make(chan struct{}),
	}

	if !cfg.Persistent {
		c.logger = kvcoll.Logger.With().Str("collection", "memory").Logger()

		for _, entry := range entries {
			c.entries.set(entry.Key, entry.Value)
		}

		c.fireReady()

		return c, nil
	}

	if cfg.Name == "" {
		return nil, ErrMissingName
	}

	dir := cfg.DataDir
	if dir == "" {
		dir = DefaultDataDir
	}

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, xerrors.Errorf("failed to create data dir: %v", err)
	}

	c.persistent = true
	c.name = sanitizeName(cfg.Name)
	c.path = filepath.Join(dir, c.name)
	c.logger = kvcoll.Logger.With().Str("collection", c.name).Logger()

	c.db, err = kv.New(c.path)
	if err != nil {
		return nil, xerrors.Errorf("failed to open db: %v", err)
	}

	c.ops = make(chan dbop, 128)
	c.drained = make(chan struct{})

	go c.writer()

	for _, entry := range entries {
		_, err = c.Set(entry.Key, entry.Value)
		if err != nil {
			// Release the handle, otherwise the file lock would block any
			// retry on the same store.
			cerr := c.Close()
			if cerr != nil {
				c.logger.Err(cerr).Msg("failed to close db")
			}

			return nil, err
		}
	}

	go c.load()

	return c, nil
}

// Ready returns a channel that is closed once the initial load of the
// collection has completed. A collection without persistence is ready from
// the start.
func (c *Collection[K, V]) Ready() <-chan struct{} {
	return c.ready
}

// Wait blocks until the collection is ready, or until the context is done.
func (c *Collection[K, V]) Wait(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return xerrors.Errorf("readiness aborted: %v", ctx.Err())
	}
}

// Name returns the sanitized name of a persistent collection, or the empty
// string.
func (c *Collection[K, V]) Name() string {
	return c.name
}

// Persistent indicates whether the collection mirrors its entries to disk.
func (c *Collection[K, V]) Persistent() bool {
	return c.persistent
}

// Len returns the number of entries.
func (c *Collection[K, V]) Len() int {
	c.Lock()
	defer c.Unlock()

	return c.entries.len()
}

// Get returns the value stored under the key, and whether the key exists.
func (c *Collection[K, V]) Get(key K) (V, bool) {
	c.Lock()
	defer c.Unlock()

	return c.entries.get(key)
}

// Has returns whether the key exists.
func (c *Collection[K, V]) Has(key K) bool {
	c.Lock()
	defer c.Unlock()

	return c.entries.has(key)
}

// Set assigns the value to the key. The memory is updated synchronously and,
// for a persistent collection, the disk write is spawned in the background.
// It returns the collection so that calls can be chained.
//
// A persistent collection rejects keys that are neither strings nor integral
// numbers with ErrInvalidKeyType, leaving the container untouched.
func (c *Collection[K, V]) Set(key K, value V) (*Collection[K, V], error) {
	c.invalidate()

	if c.persistent {
		keyData, err := encodeKey(key)
		if err != nil {
			return c, xerrors.Errorf("failed to set: %w", err)
		}

		data, err := encodeValue(value)
		if err != nil {
			return c, xerrors.Errorf("failed to set: %v", err)
		}

		c.ops <- dbop{key: keyData, value: data}
	}

	c.Lock()
	c.entries.set(key, value)
	size := c.entries.len()
	c.Unlock()

	c.updateGauge(size)

	return c, nil
}

// Delete removes the key and reports whether it was present. For a
// persistent collection the disk delete is spawned in the background.
func (c *Collection[K, V]) Delete(key K) bool {
	return c.remove(key, false)
}

// Clear removes every entry from memory. The disk is left untouched: it is
// the bulk counterpart of Delete, meant to be paired with Purge when the
// store itself is being torn down.
func (c *Collection[K, V]) Clear() {
	c.Lock()
	c.cachedValues = nil
	c.cachedKeys = nil
	c.entries = newOrderedMap[K, V]()
	c.Unlock()

	c.updateGauge(0)
}

// Close settles the queued disk writes and releases the database handle. The
// in-memory entries remain readable but the collection must not be mutated
// afterwards. It is a no-op for a collection without persistence.
func (c *Collection[K, V]) Close() error {
	if !c.persistent {
		return nil
	}

	c.flushOnce.Do(func() {
		close(c.ops)
		<-c.drained
	})

	c.closeOnce.Do(func() {
		c.closeErr = c.db.Close()
	})

	if c.closeErr != nil {
		return xerrors.Errorf("failed to close db: %v", c.closeErr)
	}

	return nil
}

// Purge closes the database handle and destroys the store on disk. It blocks
// until both have completed and returns the first failure. The in-memory
// entries are left untouched; use Clear for those.
func (c *Collection[K, V]) Purge() error {
	if !c.persistent {
		return nil
	}

	err := c.Close()
	if err != nil {
		return err
	}

	err = kv.Destroy(c.path)
	if err != nil {
		return xerrors.Errorf("failed to destroy store: %v", err)
	}

	c.logger.Debug().Msg("store destroyed")

	return nil
}

// DeleteAll purges every value that owns a store of its own, then purges the
// collection itself. It waits for all the teardowns and returns the first
// failure.
func (c *Collection[K, V]) DeleteAll() error {
	errs := make(chan error)

	count := 0
	for _, value := range c.Values() {
		purger, ok := any(value).(Purger)
		if !ok {
			continue
		}

		count++
		go func() {
			errs <- purger.Purge()
		}()
	}

	var first error
	for i := 0; i < count; i++ {
		err := <-errs
		if err != nil && first == nil {
			first = err
		}
	}

	err := c.Purge()
	if err != nil {
		return err
	}

	return first
}

// load streams the stored keys and fetches their values to populate the
// container, then fires the readiness signal. A failure on an individual key
// is logged and the key is skipped; it never prevents readiness.
func (c *Collection[K, V]) load() {
	defer c.fireReady()

	var keys [][]byte

	err := c.db.Scan(func(key []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		c.logger.Err(err).Msg("failed to stream keys")
		return
	}

	count := 0

	for _, keyData := range keys {
		data, err := c.db.Get(keyData)
		if err != nil {
			c.logger.Warn().Err(err).
				Str("key", string(keyData)).Msg("failed to fetch key")
			continue
		}

		key, err := decodeKey[K](keyData)
		if err != nil {
			c.logger.Warn().Err(err).
				Str("key", string(keyData)).Msg("failed to decode key")
			continue
		}

		value, err := decodeValue[V](data)
		if err != nil {
			c.logger.Warn().Err(err).
				Str("key", string(keyData)).Msg("failed to decode value")
			continue
		}

		c.Lock()
		c.cachedValues = nil
		c.cachedKeys = nil
		c.entries.set(key, value)
		size := c.entries.len()
		c.Unlock()

		c.updateGauge(size)
		count++
	}

	promLoadedKeys.WithLabelValues(c.name).Add(float64(count))

	c.logger.Debug().Int("keys", count).Msg("collection loaded")
}

func (c *Collection[K, V]) fireReady() {
	c.readyOnce.Do(func() {
		close(c.ready)
	})
}

// invalidate drops both memoized views.
func (c *Collection[K, V]) invalidate() {
	c.Lock()
	c.cachedValues = nil
	c.cachedKeys = nil
	c.Unlock()
}

func (c *Collection[K, V]) remove(key K, bulk bool) bool {
	c.invalidate()

	if c.persistent && !bulk {
		keyData, err := encodeKey(key)
		if err == nil {
			c.ops <- dbop{key: keyData, delete: true}
		}
	}

	c.Lock()
	found := c.entries.delete(key)
	size := c.entries.len()
	c.Unlock()

	c.updateGauge(size)

	return found
}

// writer drains the queue of disk mutations. A failed write is logged and
// counted, never surfaced to the caller that issued it.
func (c *Collection[K, V]) writer() {
	defer close(c.drained)

	for op := range c.ops {
		var err error
		if op.delete {
			err = c.db.Delete(op.key)
		} else {
			err = c.db.Set(op.key, op.value)
		}

		if err != nil {
			promWriteErrors.WithLabelValues(c.name).Inc()
			c.logger.Err(err).
				Str("key", string(op.key)).Msg("failed to mirror mutation")
		}
	}
}

func (c *Collection[K, V]) updateGauge(size int) {
	if c.persistent {
		promEntries.WithLabelValues(c.name).Set(float64(size))
	}
}
