package storage

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = leveldb.ErrNotFound

// Iterator walks a key range in ascending byte order. Callers must Release it.
type Iterator = iterator.Iterator

// Batch groups writes so they land atomically.
type Batch = leveldb.Batch

// Database is a generic interface for a key-value store.
// This allows the ledger to use any database backend (in-memory or persistent).
type Database interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Delete(key []byte) error
	// NewIterator returns an iterator over every key sharing the prefix.
	NewIterator(prefix []byte) Iterator
	// Write applies all operations of the batch atomically.
	Write(batch *Batch) error
	Close() // A way to gracefully shut down the database connection.
}

// IsNotFound reports whether err signals a missing key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// --- In-Memory DB (for testing) ---

// MemDB is backed by goleveldb's skiplist so iteration order matches LevelDB.
type MemDB struct {
	db *memdb.DB
}

func NewMemDB() *MemDB {
	return &MemDB{db: memdb.New(comparer.DefaultComparer, 0)}
}

func (m *MemDB) Put(key []byte, value []byte) error {
	return m.db.Put(key, value)
}

func (m *MemDB) Get(key []byte) ([]byte, error) {
	value, err := m.db.Get(key)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), value...), nil
}

func (m *MemDB) Has(key []byte) (bool, error) {
	return m.db.Contains(key), nil
}

func (m *MemDB) Delete(key []byte) error {
	err := m.db.Delete(key)
	if IsNotFound(err) {
		return nil
	}
	return err
}

func (m *MemDB) NewIterator(prefix []byte) Iterator {
	return m.db.NewIterator(util.BytesPrefix(prefix))
}

func (m *MemDB) Write(batch *Batch) error {
	if batch == nil {
		return nil
	}
	return batch.Replay(memReplayer{m})
}

// Len returns the number of live entries.
func (m *MemDB) Len() int {
	return m.db.Len()
}

// Close satisfies the Database interface for MemDB.
func (m *MemDB) Close() {
	// Nothing to close for an in-memory database.
}

type memReplayer struct{ m *MemDB }

func (r memReplayer) Put(key, value []byte) { _ = r.m.db.Put(key, value) }
func (r memReplayer) Delete(key []byte)     { _ = r.m.Delete(key) }

// --- Persistent DB (for mainnet) ---

// LevelDB is a persistent key-value store using LevelDB.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB creates or opens a LevelDB database at the specified path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

// Put inserts or updates a key-value pair.
func (ldb *LevelDB) Put(key []byte, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

// Get retrieves a value for a given key.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, nil)
}

// Has reports whether the key is present.
func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, nil)
}

// Delete removes the key. Deleting a missing key is not an error.
func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, nil)
}

// NewIterator iterates over all keys with the given prefix.
func (ldb *LevelDB) NewIterator(prefix []byte) Iterator {
	return ldb.db.NewIterator(util.BytesPrefix(prefix), nil)
}

// Write commits the batch atomically.
func (ldb *LevelDB) Write(batch *Batch) error {
	if batch == nil {
		return nil
	}
	return ldb.db.Write(batch, nil)
}

// Close closes the database connection.
func (ldb *LevelDB) Close() {
	ldb.db.Close()
}
