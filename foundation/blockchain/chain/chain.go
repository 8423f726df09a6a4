// Package chain maintains the ordered sequence of blocks and implements the
// longest valid chain consensus rule used to reconcile with peers.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/genesis"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
)

// ErrChainTooShort is returned from ReplaceChain when the candidate chain is
// valid but not strictly longer than the local chain.
var ErrChainTooShort = errors.New("candidate chain is not longer than the current chain")

// ErrChainInvalid is returned from ReplaceChain when the candidate chain
// fails validation. The local chain is left untouched.
var ErrChainInvalid = errors.New("candidate chain is invalid")

// ErrStaleParent is returned from AddBlock when the chain tip moved while
// the proof of work search was running, so the freshly mined block no longer
// links to the current last block.
var ErrStaleParent = errors.New("chain tip moved while mining")

// EventHandler defines a function that is called when events occur in the
// processing of blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Blockchain manages the chain of blocks. All chain mutation happens as a
// whole-chain swap or an append under a single exclusive lock, never as
// element-wise mutation, so readers can never observe a broken linkage.
type Blockchain struct {
	mu sync.RWMutex

	genesisBlock block.Block
	mineRate     time.Duration
	blocks       []block.Block
	evHandler    EventHandler
}

// New constructs a blockchain seeded with the genesis block.
func New(gen genesis.Genesis, evHandler EventHandler) *Blockchain {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	genesisBlock := block.Genesis(gen)

	bc := Blockchain{
		genesisBlock: genesisBlock,
		mineRate:     gen.MineRate,
		blocks:       []block.Block{genesisBlock},
		evHandler:    ev,
	}

	return &bc
}

// Genesis returns the genesis block for this chain.
func (bc *Blockchain) Genesis() block.Block {
	return bc.genesisBlock
}

// Height returns the current number of blocks in the chain.
func (bc *Blockchain) Height() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return len(bc.blocks)
}

// LatestBlock returns a copy of the current last block.
func (bc *Blockchain) LatestBlock() block.Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	return bc.blocks[len(bc.blocks)-1]
}

// Blocks returns a copy of the chain for reading. The returned slice is
// detached from the chain's own backing array.
func (bc *Blockchain) Blocks() []block.Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	blocks := make([]block.Block, len(bc.blocks))
	copy(blocks, bc.blocks)

	return blocks
}

// =============================================================================

// AddBlock mines the next block for the specified data and appends it to the
// chain. The proof of work search runs against an immutable snapshot of the
// last block, the exclusive lock is only taken for the append itself so
// readers are never blocked by mining.
func (bc *Blockchain) AddBlock(ctx context.Context, data []transaction.SignedTx) (block.Block, error) {
	lastBlock := bc.LatestBlock()

	newBlock, err := block.Mine(ctx, lastBlock, data, bc.mineRate, bc.evHandler)
	if err != nil {
		return block.Block{}, err
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()

	// The chain may have been replaced or extended while the search ran. A
	// stale block must never be appended, that would break the linkage
	// invariant.
	tip := bc.blocks[len(bc.blocks)-1]
	if newBlock.LastHash != tip.Hash {
		return block.Block{}, ErrStaleParent
	}

	bc.blocks = append(bc.blocks, newBlock)

	return newBlock, nil
}

// ValidateChain checks a candidate chain end-to-end: the first element must
// be exactly the genesis block, and every consecutive pair must pass the
// block validation rules. Any failure short-circuits.
func (bc *Blockchain) ValidateChain(candidate []block.Block) error {
	if len(candidate) == 0 {
		return fmt.Errorf("%w: chain is empty", ErrChainInvalid)
	}

	// The hash covers every other field, so matching both the stored and
	// the recomputed hash against genesis means the first block is exactly
	// the genesis block.
	first := candidate[0]
	if first.Hash != bc.genesisBlock.Hash || first.HashContent() != bc.genesisBlock.Hash {
		return fmt.Errorf("%w: first block is not the genesis block", ErrChainInvalid)
	}

	for i := 1; i < len(candidate); i++ {
		if err := candidate[i].ValidateBlock(candidate[i-1]); err != nil {
			return fmt.Errorf("%w: block %d: %s", ErrChainInvalid, i, err)
		}
	}

	return nil
}

// ReplaceChain arbitrates between the local chain and a candidate received
// from a peer. The candidate is accepted only when it is strictly longer and
// fully valid, in which case the entire chain reference is swapped under the
// exclusive lock. On rejection the local chain is untouched and the reason
// is returned for the caller to log.
func (bc *Blockchain) ReplaceChain(candidate []block.Block) error {
	if err := bc.ValidateChain(candidate); err != nil {
		return err
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()

	if len(candidate) <= len(bc.blocks) {
		return ErrChainTooShort
	}

	bc.evHandler("chain: replaceChain: accepting peer chain: height %d -> %d", len(bc.blocks), len(candidate))

	blocks := make([]block.Block, len(candidate))
	copy(blocks, candidate)
	bc.blocks = blocks

	return nil
}
