package state

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"

	"mcashchain/storage"
)

// Manager is the ledger store consumed by every operation. Reads fall through
// a journaled write overlay to the backing database; nothing reaches the
// database until Commit, which flushes the whole overlay in one batch.
//
// A Manager is owned by a single block-execution context and is not safe for
// concurrent use.
type Manager struct {
	db      storage.Database
	dirty   map[string]*overlayEntry
	journal []journalEntry
}

type overlayEntry struct {
	value   []byte
	deleted bool
}

type journalEntry struct {
	key  string
	prev *overlayEntry
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{
		db:    db,
		dirty: make(map[string]*overlayEntry),
	}
}

// Snapshot returns an identifier for the current overlay revision.
func (m *Manager) Snapshot() int {
	return len(m.journal)
}

// RevertToSnapshot undoes every write made after the snapshot was taken.
func (m *Manager) RevertToSnapshot(id int) {
	if id < 0 || id > len(m.journal) {
		panic(fmt.Sprintf("state: invalid snapshot %d (journal %d)", id, len(m.journal)))
	}
	for i := len(m.journal) - 1; i >= id; i-- {
		entry := m.journal[i]
		if entry.prev == nil {
			delete(m.dirty, entry.key)
		} else {
			m.dirty[entry.key] = entry.prev
		}
	}
	m.journal = m.journal[:id]
}

// Discard drops all uncommitted writes.
func (m *Manager) Discard() {
	m.dirty = make(map[string]*overlayEntry)
	m.journal = nil
}

// Commit writes the overlay to the database atomically and returns the
// Merkle root of the write set. Leaves are keyed by the keccak256 of each
// store key, so identical write sets produce identical roots regardless of
// write order. An empty overlay yields the empty trie root.
func (m *Manager) Commit() (common.Hash, error) {
	type leaf struct {
		hashed common.Hash
		key    string
	}
	leaves := make([]leaf, 0, len(m.dirty))
	for k := range m.dirty {
		leaves = append(leaves, leaf{hashed: ethcrypto.Keccak256Hash([]byte(k)), key: k})
	}
	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i].hashed[:], leaves[j].hashed[:]) < 0
	})

	batch := new(storage.Batch)
	root := trie.NewStackTrie(nil)
	for _, l := range leaves {
		entry := m.dirty[l.key]
		value := []byte{0}
		if entry.deleted {
			batch.Delete([]byte(l.key))
		} else {
			batch.Put([]byte(l.key), entry.value)
			value = append([]byte{1}, entry.value...)
		}
		if err := root.Update(l.hashed[:], value); err != nil {
			return common.Hash{}, fmt.Errorf("state: digest: %w", err)
		}
	}
	if err := m.db.Write(batch); err != nil {
		return common.Hash{}, fmt.Errorf("state: commit: %w", err)
	}
	digest := root.Hash()
	m.Discard()
	return digest, nil
}

func (m *Manager) write(key []byte, entry *overlayEntry) {
	k := string(key)
	m.journal = append(m.journal, journalEntry{key: k, prev: m.dirty[k]})
	m.dirty[k] = entry
}

func (m *Manager) read(key []byte) ([]byte, bool, error) {
	if entry, ok := m.dirty[string(key)]; ok {
		if entry.deleted {
			return nil, false, nil
		}
		return entry.value, true, nil
	}
	data, err := m.db.Get(key)
	if storage.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Get decodes the record stored under key in collection c into out. The
// boolean reports whether the record existed.
func (m *Manager) Get(c Collection, key []byte, out interface{}) (bool, error) {
	data, ok, err := m.read(c.key(key))
	if err != nil || !ok {
		return false, err
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode %s/%x: %w", c, key, err)
	}
	return true, nil
}

// Put RLP-encodes value and stores it under key in collection c.
func (m *Manager) Put(c Collection, key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %s/%x: %w", c, key, err)
	}
	m.write(c.key(key), &overlayEntry{value: encoded})
	return nil
}

// Delete removes key from collection c.
func (m *Manager) Delete(c Collection, key []byte) error {
	m.write(c.key(key), &overlayEntry{deleted: true})
	return nil
}

// Has reports whether key is present in collection c.
func (m *Manager) Has(c Collection, key []byte) (bool, error) {
	_, ok, err := m.read(c.key(key))
	return ok, err
}

// Iterate calls fn for every record of collection c in ascending key order,
// merging uncommitted writes over the database contents. The key passed to fn
// has the collection prefix stripped.
func (m *Manager) Iterate(c Collection, fn func(key, value []byte) error) error {
	prefix := c.prefix()
	merged := make(map[string][]byte)

	it := m.db.NewIterator(prefix)
	for it.Next() {
		merged[string(it.Key())] = append([]byte(nil), it.Value()...)
	}
	it.Release()
	if err := it.Error(); err != nil {
		return fmt.Errorf("state: iterate %s: %w", c, err)
	}
	for k, entry := range m.dirty {
		if !bytes.HasPrefix([]byte(k), prefix) {
			continue
		}
		if entry.deleted {
			delete(merged, k)
			continue
		}
		merged[k] = entry.value
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k)[len(prefix):], merged[k]); err != nil {
			return err
		}
	}
	return nil
}
