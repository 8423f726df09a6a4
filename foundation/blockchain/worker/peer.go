package worker

import (
	"errors"

	"github.com/ilmoi/minichain/foundation/blockchain/chain"
	"github.com/ilmoi/minichain/foundation/blockchain/peer"
)

// peerOperations handles finding new peers and reconciling the chain.
func (w *Worker) peerOperations() {
	w.evHandler("worker: peerOperations: G started")
	defer w.evHandler("worker: peerOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runPeersOperation()
			}
		case <-w.shut:
			w.evHandler("worker: peerOperations: received shut signal")
			return
		}
	}
}

// runPeersOperation updates the peer list and reconciles the local chain
// against any peer reporting a taller one.
func (w *Worker) runPeersOperation() {
	w.evHandler("worker: runPeersOperation: started")
	defer w.evHandler("worker: runPeersOperation: completed")

	for _, pr := range w.state.RetrieveKnownPeers() {

		// Retrieve the status of this peer.
		peerStatus, err := w.state.NetRequestPeerStatus(pr)
		if err != nil {
			w.evHandler("worker: runPeersOperation: queryPeerStatus: %s: ERROR: %s", pr.Host, err)
			w.state.RemoveKnownPeer(pr)
			continue
		}

		// Add new peers to this nodes list.
		w.addNewPeers(peerStatus.KnownPeers)

		// If this peer reports a taller chain, fetch it and let the
		// replacement arbitration decide.
		if peerStatus.Height > w.state.RetrieveChainHeight() {
			w.reconcileChain(pr)
		}
	}

	// Get the latest peers and let them know this node is available to chat.
	for _, pr := range w.state.RetrieveKnownPeers() {
		if err := w.state.NetRequestAddPeer(pr); err != nil {
			w.evHandler("worker: runPeersOperation: addPeer: %s: ERROR: %s", pr.Host, err)
		}
	}
}

// reconcileChain pulls the peer's full chain and submits it for replacement.
// A candidate that is too short or invalid is logged and dropped, the local
// chain stays as it is.
func (w *Worker) reconcileChain(pr peer.Peer) {
	candidate, err := w.state.NetRequestPeerChain(pr)
	if err != nil {
		w.evHandler("worker: reconcileChain: %s: ERROR: %s", pr.Host, err)
		return
	}

	if err := w.state.ProcessPeerChain(candidate); err != nil {
		switch {
		case errors.Is(err, chain.ErrChainTooShort):
			w.evHandler("worker: reconcileChain: %s: candidate not longer than local chain", pr.Host)
		case errors.Is(err, chain.ErrChainInvalid):
			w.evHandler("worker: reconcileChain: %s: candidate failed validation: %s", pr.Host, err)
		default:
			w.evHandler("worker: reconcileChain: %s: ERROR: %s", pr.Host, err)
		}
		return
	}

	w.evHandler("worker: reconcileChain: %s: chain replaced: height[%d]", pr.Host, len(candidate))
}

// addNewPeers takes the list of known peers and makes sure they are included
// in the nodes list of known peers.
func (w *Worker) addNewPeers(knownPeers []peer.Peer) {
	w.evHandler("worker: runPeersOperation: addNewPeers: started")
	defer w.evHandler("worker: runPeersOperation: addNewPeers: completed")

	for _, pr := range knownPeers {

		// Don't add this running node to the known peer list.
		if pr.Match(w.state.RetrieveHost()) {
			continue
		}

		if w.state.AddKnownPeer(pr) {
			w.evHandler("worker: runPeersOperation: addNewPeers: adding peer-node %s", pr.Host)
		}
	}
}
