package state

import (
	"github.com/ilmoi/minichain/foundation/blockchain/block"
)

// ProcessPeerChain takes a full chain received from a peer and submits it
// to the replacement arbitration: the candidate must be valid end-to-end
// and strictly longer than the local chain. On rejection the local state is
// untouched and the reason is returned for the caller to log.
func (s *State) ProcessPeerChain(candidate []block.Block) error {
	s.evHandler("state: ProcessPeerChain: started: candidate height[%d]", len(candidate))
	defer s.evHandler("state: ProcessPeerChain: completed")

	if err := s.chain.ReplaceChain(candidate); err != nil {
		return err
	}

	// Any in-flight proof of work search is now mining on top of a dead
	// parent, stop it.
	if s.Worker != nil {
		s.Worker.SignalCancelMining()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Rewrite storage to match the accepted chain.
	if err := s.storage.Reset(); err != nil {
		return err
	}
	for i, blk := range candidate[1:] {
		if err := s.storage.Write(uint64(i+1), blk); err != nil {
			return err
		}
	}

	return nil
}
