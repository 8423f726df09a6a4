package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/peer"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
)

const baseURL = "http://%s/v1/node"

// maxFetchRetries bounds the retry attempts when pulling a chain from a
// peer. Fetches are best effort, a peer that stays unreachable is skipped.
const maxFetchRetries = 3

// NetSendChainToPeers shares the full local chain with all known peers
// after a successful mine. Failures don't corrupt local state, the peer
// will catch up through its own sync.
func (s *State) NetSendChainToPeers() {
	s.evHandler("state: NetSendChainToPeers: started")
	defer s.evHandler("state: NetSendChainToPeers: completed")

	blocks := s.chain.Blocks()

	for _, pr := range s.RetrieveKnownPeers() {
		url := fmt.Sprintf("%s/chain/replace", fmt.Sprintf(baseURL, pr.Host))

		if err := send(http.MethodPost, url, blocks, nil); err != nil {
			s.evHandler("state: NetSendChainToPeers: WARNING: %s: %s", pr.Host, err)
			continue
		}

		s.evHandler("state: NetSendChainToPeers: sent to peer[%s]", pr.Host)
	}
}

// NetSendTxToPeers shares a new transaction with the known peers.
func (s *State) NetSendTxToPeers(tx transaction.SignedTx) {
	s.evHandler("state: NetSendTxToPeers: started")
	defer s.evHandler("state: NetSendTxToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		url := fmt.Sprintf("%s/tx/submit", fmt.Sprintf(baseURL, pr.Host))
		if err := send(http.MethodPost, url, tx, nil); err != nil {
			s.evHandler("state: NetSendTxToPeers: WARNING: %s", err)
		}
	}
}

// NetRequestPeerStatus asks a peer for its chain height and peer list.
func (s *State) NetRequestPeerStatus(pr peer.Peer) (peer.Status, error) {
	s.evHandler("state: NetRequestPeerStatus: started: %s", pr.Host)
	defer s.evHandler("state: NetRequestPeerStatus: completed: %s", pr.Host)

	url := fmt.Sprintf("%s/status", fmt.Sprintf(baseURL, pr.Host))

	var ps peer.Status
	if err := send(http.MethodGet, url, nil, &ps); err != nil {
		return peer.Status{}, err
	}

	s.evHandler("state: NetRequestPeerStatus: peer[%s]: height[%d]", pr.Host, ps.Height)

	return ps, nil
}

// NetRequestPeerChain fetches a peer's full chain, retrying with
// exponential backoff since a freshly mined chain announcement often races
// the peer's own persistence.
func (s *State) NetRequestPeerChain(pr peer.Peer) ([]block.Block, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr.Host)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr.Host)

	url := fmt.Sprintf("%s/chain/list", fmt.Sprintf(baseURL, pr.Host))

	var blocks []block.Block
	op := func() error {
		return send(http.MethodGet, url, nil, &blocks)
	}

	if err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxFetchRetries)); err != nil {
		return nil, err
	}

	s.evHandler("state: NetRequestPeerChain: received height[%d]", len(blocks))

	return blocks, nil
}

// NetRequestAddPeer announces this node to the specified peer.
func (s *State) NetRequestAddPeer(pr peer.Peer) error {
	url := fmt.Sprintf("%s/peers/add", fmt.Sprintf(baseURL, pr.Host))
	return send(http.MethodPost, url, peer.New(s.host), nil)
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func send(method string, url string, dataSend any, dataRecv any) error {
	var req *http.Request

	switch {
	case dataSend != nil:
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		req, err = http.NewRequest(method, url, bytes.NewReader(data))
		if err != nil {
			return err
		}

	default:
		var err error
		req, err = http.NewRequest(method, url, nil)
		if err != nil {
			return err
		}
	}

	var client http.Client
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return errors.New(string(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
