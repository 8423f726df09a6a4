package state

import (
	"context"
	"errors"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no valid transactions in the mempool.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// MineNewBlock performs one full mining pass: it snapshots the valid pool
// transactions, mines and appends the next block, and clears exactly that
// snapshot from the pool. This is the only place mining, chain append, and
// pool cleanup are sequenced together, the pool is never cleared before the
// block is appended.
func (s *State) MineNewBlock(ctx context.Context) (block.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	// Snapshot the transactions going into the block. Anything arriving in
	// the pool after this point will be picked up by a later mining pass.
	data := s.mempool.ValidTransactions()
	if len(data) == 0 {
		return block.Block{}, ErrNoTransactions
	}

	// The miner gets credited through a reward transaction added to the
	// same block.
	data = append(data, transaction.NewReward(s.minerAccountID, s.genesis.MiningReward))

	s.evHandler("state: MineNewBlock: MINING: perform POW: txs[%d]", len(data))

	// Mine against an immutable snapshot. The chain takes its exclusive
	// lock only at the moment of appending and refuses the block if the tip
	// moved while the search was running.
	blk, err := s.chain.AddBlock(ctx, data)
	if err != nil {
		return block.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: update local state: blk[%s]", blk.Hash)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Clear exactly the set that was included, a transaction that arrived
	// after the snapshot stays pending.
	s.mempool.Clear(data)

	// Persist the new block, unless a peer chain replaced the chain in the
	// window after the append. In that case storage was already rewritten.
	if s.chain.LatestBlock().Hash == blk.Hash {
		num := uint64(s.chain.Height() - 1)
		if err := s.storage.Write(num, blk); err != nil {
			s.evHandler("state: MineNewBlock: WARNING: persisting block: %s", err)
		}
	}

	return blk, nil
}
