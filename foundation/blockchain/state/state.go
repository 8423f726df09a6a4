// Package state is the core API for the node and implements the miner
// workflow over the chain, the mempool, and the peer network.
package state

import (
	"fmt"
	"sync"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/chain"
	"github.com/ilmoi/minichain/foundation/blockchain/genesis"
	"github.com/ilmoi/minichain/foundation/blockchain/mempool"
	"github.com/ilmoi/minichain/foundation/blockchain/peer"
	"github.com/ilmoi/minichain/foundation/blockchain/storage"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
)

// EventHandler defines a function that is called when events occur in the
// processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for mining, peer updates, and transaction
// sharing.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
	SignalShareTx(tx transaction.SignedTx)
}

// =============================================================================

// Config represents the configuration required to start the node.
type Config struct {
	MinerAccountID transaction.AccountID
	Host           string
	Genesis        genesis.Genesis
	Storage        storage.Serializer
	KnownPeers     *peer.Set
	EvHandler      EventHandler
}

// State manages the blockchain node.
type State struct {
	mu sync.Mutex

	minerAccountID transaction.AccountID
	host           string
	evHandler      EventHandler

	genesis    genesis.Genesis
	knownPeers *peer.Set
	storage    storage.Serializer
	mempool    *mempool.Mempool
	chain      *chain.Blockchain

	Worker Worker
}

// New constructs a new blockchain node state. Any blocks found in storage
// are revalidated end-to-end and loaded into the chain before the node
// starts accepting work.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	bc := chain.New(cfg.Genesis, chain.EventHandler(ev))

	// Reload the chain from storage. The stored blocks go through the same
	// replacement arbitration a peer chain would, so a corrupted store can
	// never boot an invalid chain.
	blocks, err := storage.ReadAllBlocks(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("reading blocks from storage: %w", err)
	}
	if len(blocks) > 0 {
		candidate := append([]block.Block{bc.Genesis()}, blocks...)
		if err := bc.ReplaceChain(candidate); err != nil {
			return nil, fmt.Errorf("stored chain rejected: %w", err)
		}
	}

	state := State{
		minerAccountID: cfg.MinerAccountID,
		host:           cfg.Host,
		evHandler:      ev,

		genesis:    cfg.Genesis,
		knownPeers: cfg.KnownPeers,
		storage:    cfg.Storage,
		mempool:    mempool.New(),
		chain:      bc,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Make sure the database is properly closed.
	defer func() {
		s.storage.Close()
	}()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// AddKnownPeer provides the ability to add a new peer to the known peer
// list. It reports whether the peer was not already known.
func (s *State) AddKnownPeer(p peer.Peer) bool {
	return s.knownPeers.Add(p)
}

// RemoveKnownPeer provides the ability to remove a peer from the known
// peer list.
func (s *State) RemoveKnownPeer(p peer.Peer) {
	s.knownPeers.Remove(p)
}
