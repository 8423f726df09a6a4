// Package block implements the block data structure, the proof of work
// search that mines new blocks, and the validation rules every peer must
// apply identically.
package block

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ilmoi/minichain/foundation/blockchain/genesis"
	"github.com/ilmoi/minichain/foundation/blockchain/signature"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
)

// GenesisLastHash is the sentinel parent hash carried by the genesis block,
// which has no real predecessor.
const GenesisLastHash = "-"

// minDifficulty is the floor for the proof of work difficulty.
const minDifficulty = 1

// =============================================================================

// Block represents a group of transactions batched together with the proof
// of work metadata that chains it to its parent.
type Block struct {
	Timestamp  uint64                 `json:"timestamp"` // Time the block was mined, in unix milliseconds.
	LastHash   string                 `json:"last_hash"` // Hash of the previous block in the chain.
	Hash       string                 `json:"hash"`      // Content hash of this block's other fields.
	Data       []transaction.SignedTx `json:"data"`      // Transactions included in this block.
	Nonce      uint64                 `json:"nonce"`     // Value identified to solve the hash solution.
	Difficulty int                    `json:"difficulty"` // Number of leading zeros needed to solve the hash solution.
}

// Genesis constructs the fixed first block of the chain from the genesis
// parameters. Every peer sharing the same genesis file computes the exact
// same block.
func Genesis(gen genesis.Genesis) Block {
	difficulty := gen.Difficulty
	if difficulty < minDifficulty {
		difficulty = minDifficulty
	}

	b := Block{
		Timestamp:  uint64(gen.Date.UTC().UnixMilli()),
		LastHash:   GenesisLastHash,
		Nonce:      0,
		Difficulty: difficulty,
	}
	b.Hash = b.HashContent()

	return b
}

// Mine constructs the next block by performing the proof of work search.
// The search runs against immutable copies of the last block and the data,
// so no shared state is held while the CPU burns. The context is checked
// every iteration so a caller can abandon the search.
func Mine(ctx context.Context, lastBlock Block, data []transaction.SignedTx, mineRate time.Duration, ev func(v string, args ...any)) (Block, error) {
	ev("block: mine: POW: started: parent[%s]", lastBlock.Hash)
	defer ev("block: mine: POW: completed")

	var attempts uint64
	var nonce uint64

	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("block: mine: POW: attempts[%d]", attempts)
		}

		// Did the caller abandon the search.
		if ctx.Err() != nil {
			ev("block: mine: POW: CANCELLED")
			return Block{}, ctx.Err()
		}

		// Take a fresh timestamp each iteration so the difficulty keeps
		// adjusting while the search runs.
		timestamp := uint64(time.Now().UTC().UnixMilli())

		b := Block{
			Timestamp:  timestamp,
			LastHash:   lastBlock.Hash,
			Data:       data,
			Nonce:      nonce,
			Difficulty: AdjustDifficulty(lastBlock, timestamp, mineRate),
		}
		b.Hash = b.HashContent()

		if IsHashSolved(b.Difficulty, b.Hash) {
			ev("block: mine: POW: SOLVED: attempts[%d]: hash[%s]", attempts, b.Hash)
			return b, nil
		}

		nonce++
	}
}

// AdjustDifficulty produces the difficulty for a block mined at the given
// timestamp. Blocks arriving faster than the mine rate raise the
// difficulty, slower blocks lower it, floored at the minimum. This keeps
// block production roughly constant regardless of total hash power.
func AdjustDifficulty(lastBlock Block, timestamp uint64, mineRate time.Duration) int {
	elapsed := time.Duration(int64(timestamp)-int64(lastBlock.Timestamp)) * time.Millisecond

	difficulty := lastBlock.Difficulty
	if elapsed < mineRate {
		difficulty++
	} else {
		difficulty--
	}

	if difficulty < minDifficulty {
		return minDifficulty
	}

	return difficulty
}

// =============================================================================

// content mirrors the block fields covered by the content hash. The hash
// field itself is excluded, everything else is bound.
type content struct {
	Timestamp  uint64                 `json:"timestamp"`
	LastHash   string                 `json:"last_hash"`
	Data       []transaction.SignedTx `json:"data"`
	Nonce      uint64                 `json:"nonce"`
	Difficulty int                    `json:"difficulty"`
}

// HashContent recomputes the content hash over the block's fields. A block
// is only authentic when its stored hash equals this recomputation.
func (b Block) HashContent() string {
	return signature.Hash(content{
		Timestamp:  b.Timestamp,
		LastHash:   b.LastHash,
		Data:       b.Data,
		Nonce:      b.Nonce,
		Difficulty: b.Difficulty,
	})
}

// ValidateBlock determines whether this block is a valid successor of the
// specified last block. These rules are consensus critical, every peer must
// apply them identically.
func (b Block) ValidateBlock(lastBlock Block) error {
	if b.LastHash != lastBlock.Hash {
		return fmt.Errorf("parent hash doesn't match, got %s, exp %s", b.LastHash, lastBlock.Hash)
	}

	if hash := b.HashContent(); b.Hash != hash {
		return fmt.Errorf("block hash doesn't match its contents, got %s, exp %s", b.Hash, hash)
	}

	if !IsHashSolved(b.Difficulty, b.Hash) {
		return fmt.Errorf("hash %s does not solve the work problem for difficulty %d", b.Hash, b.Difficulty)
	}

	if delta := b.Difficulty - lastBlock.Difficulty; delta > 1 || delta < -1 {
		return fmt.Errorf("difficulty jumped by %d from the parent block", delta)
	}

	return nil
}

// IsHashSolved checks the hash complies with the POW rules. The hash's hex
// representation needs a difficulty number of leading zeros.
func IsHashSolved(difficulty int, hash string) bool {
	h := strings.TrimPrefix(hash, "0x")
	if len(h) != 64 {
		return false
	}

	if difficulty < minDifficulty || difficulty > len(h) {
		return false
	}

	for _, r := range h[:difficulty] {
		if r != '0' {
			return false
		}
	}

	return true
}
