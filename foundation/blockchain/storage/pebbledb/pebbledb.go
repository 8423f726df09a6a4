// Package pebbledb provides a pebble backed implementation of the chain
// storage Serializer interface.
package pebbledb

import (
	"encoding/binary"
	"encoding/json"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/storage"
)

const blockKeyPrefix = 0x01

// Store persists blocks in a pebble key value database, keyed by block
// number. This implements the storage.Serializer interface.
type Store struct {
	db *pebble.DB
}

// New opens or creates the pebble database at the specified directory.
func New(dbPath string) (*Store, error) {
	db, err := pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "opening pebble db")
	}

	return &Store{db: db}, nil
}

// Close closes the underlying pebble database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Write stores the specified block under its block number.
func (s *Store) Write(num uint64, blk block.Block) error {
	value, err := json.Marshal(blk)
	if err != nil {
		return errors.Wrap(err, "serializing block")
	}

	if err := s.db.Set(blockKey(num), value, pebble.Sync); err != nil {
		return errors.Wrapf(err, "storing block %d", num)
	}

	return nil
}

// GetBlock returns the specified block by number.
func (s *Store) GetBlock(num uint64) (block.Block, error) {
	value, closer, err := s.db.Get(blockKey(num))
	if err != nil {
		return block.Block{}, errors.Wrapf(err, "getting block %d", num)
	}
	defer closer.Close()

	var blk block.Block
	if err := json.Unmarshal(value, &blk); err != nil {
		return block.Block{}, errors.Wrapf(err, "deserializing block %d", num)
	}

	return blk, nil
}

// ForEach returns an iterator to walk through all the blocks starting with
// block number 1.
func (s *Store) ForEach() storage.Iterator {
	return &Iterator{store: s}
}

// Reset removes all the stored blocks. Used when a longer peer chain
// replaces the local chain and storage must be rewritten from scratch.
func (s *Store) Reset() error {
	// The end key of a DeleteRange is exclusive, so bound the delete by the
	// next prefix byte to cover every possible block number.
	start := []byte{blockKeyPrefix}
	end := []byte{blockKeyPrefix + 1}

	if err := s.db.DeleteRange(start, end, pebble.Sync); err != nil {
		return errors.Wrap(err, "clearing blocks")
	}

	return nil
}

// blockKey produces the key for the specified block number.
func blockKey(num uint64) []byte {
	key := []byte{blockKeyPrefix}
	return binary.BigEndian.AppendUint64(key, num)
}

// =============================================================================

// Iterator walks the stored blocks in block number order.
type Iterator struct {
	store   *Store
	current uint64
	eoc     bool
}

// Next retrieves the next block from the database.
func (it *Iterator) Next() (block.Block, error) {
	if it.eoc {
		return block.Block{}, errors.New("end of chain")
	}

	it.current++
	blk, err := it.store.GetBlock(it.current)
	if errors.Is(errors.Cause(err), pebble.ErrNotFound) {
		it.eoc = true
	}

	return blk, err
}

// Done returns the end of chain value.
func (it *Iterator) Done() bool {
	return it.eoc
}
