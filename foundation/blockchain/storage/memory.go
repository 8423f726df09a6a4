package storage

import (
	"errors"
	"sync"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
)

// Memory represents the serialization implementation for keeping blocks in
// memory. Used in tests and for nodes that don't need persistence.
type Memory struct {
	mu     sync.RWMutex
	blocks []block.Block
}

// NewMemory constructs a Memory value for use.
func NewMemory() *Memory {
	return &Memory{}
}

// Close in this implementation has nothing to do.
func (m *Memory) Close() error {
	return nil
}

// Write stores the specified block in memory.
func (m *Memory) Write(num uint64, blk block.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case num == uint64(len(m.blocks)+1):
		m.blocks = append(m.blocks, blk)
	case num >= 1 && num <= uint64(len(m.blocks)):
		m.blocks[num-1] = blk
	default:
		return errors.New("block number out of sequence")
	}

	return nil
}

// GetBlock returns the specified block by number.
func (m *Memory) GetBlock(num uint64) (block.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if num < 1 || num > uint64(len(m.blocks)) {
		return block.Block{}, errors.New("block not found")
	}

	return m.blocks[num-1], nil
}

// ForEach returns an iterator to walk through all the blocks starting with
// block number 1.
func (m *Memory) ForEach() Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blocks := make([]block.Block, len(m.blocks))
	copy(blocks, m.blocks)

	return &memoryIterator{blocks: blocks}
}

// Reset clears out all the blocks held in memory.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil
	return nil
}

// =============================================================================

// memoryIterator walks a snapshot of the in-memory blocks.
type memoryIterator struct {
	blocks  []block.Block
	current int
	eoc     bool
}

// Next retrieves the next block from the snapshot.
func (mi *memoryIterator) Next() (block.Block, error) {
	if mi.current >= len(mi.blocks) {
		mi.eoc = true
		return block.Block{}, errors.New("end of chain")
	}

	blk := mi.blocks[mi.current]
	mi.current++

	return blk, nil
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
