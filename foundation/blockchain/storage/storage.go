// Package storage defines the behavior required of any backend that
// persists the blockchain, and provides the disk and memory implementations.
// Block number 1 is the first block after genesis, the genesis block itself
// is derived from the genesis file and never stored.
package storage

import (
	"github.com/ilmoi/minichain/foundation/blockchain/block"
)

// Serializer interface represents the behavior required to be implemented
// by any package providing support for storing and reading the blockchain.
type Serializer interface {
	Write(num uint64, blk block.Block) error
	GetBlock(num uint64) (block.Block, error)
	ForEach() Iterator
	Reset() error
	Close() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the stored blocks.
type Iterator interface {
	Next() (block.Block, error)
	Done() bool
}

// ReadAllBlocks walks the backend and returns every stored block in order.
func ReadAllBlocks(serializer Serializer) ([]block.Block, error) {
	var blocks []block.Block

	iter := serializer.ForEach()
	for blk, err := iter.Next(); !iter.Done(); blk, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, blk)
	}

	return blocks, nil
}
