package worker

// Sync brings this node up to date with the network before the background
// operations start: the peer list is refreshed and any peer with a taller
// chain is reconciled against.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	for _, pr := range w.state.RetrieveKnownPeers() {

		// Retrieve the status of this peer.
		peerStatus, err := w.state.NetRequestPeerStatus(pr)
		if err != nil {
			w.evHandler("worker: sync: queryPeerStatus: %s: ERROR: %s", pr.Host, err)
			continue
		}

		// Add new peers to this nodes list.
		w.addNewPeers(peerStatus.KnownPeers)

		// If this peer has a taller chain, adopt it if it validates.
		if peerStatus.Height > w.state.RetrieveChainHeight() {
			w.evHandler("worker: sync: reconcileChain: %s: height[%d]", pr.Host, peerStatus.Height)
			w.reconcileChain(pr)
		}
	}
}
