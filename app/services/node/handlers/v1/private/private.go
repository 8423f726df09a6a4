// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ilmoi/minichain/business/web/errs"
	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/chain"
	"github.com/ilmoi/minichain/foundation/blockchain/peer"
	"github.com/ilmoi/minichain/foundation/blockchain/state"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
	"github.com/ilmoi/minichain/foundation/web"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock := h.State.RetrieveLatestBlock()

	status := peer.Status{
		LatestBlockHash: latestBlock.Hash,
		Height:          h.State.RetrieveChainHeight(),
		KnownPeers:      h.State.RetrieveKnownPeers(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Chain returns the full chain of blocks for a peer to reconcile against.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// ReplaceChain takes a full chain received from a peer and submits it to
// the replacement arbitration.
func (h Handlers) ReplaceChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var candidate []block.Block
	if err := web.Decode(r, &candidate); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	if err := h.State.ProcessPeerChain(candidate); err != nil {
		switch {
		case errors.Is(err, chain.ErrChainTooShort):
			return errs.NewTrusted(err, http.StatusNotAcceptable)
		case errors.Is(err, chain.ErrChainInvalid):
			return errs.NewTrusted(err, http.StatusNotAcceptable)
		default:
			return err
		}
	}

	resp := struct {
		Status string `json:"status"`
		Height int    `json:"height"`
	}{
		Status: "chain replaced",
		Height: h.State.RetrieveChainHeight(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitNodeTransaction adds a transaction shared by a peer to the mempool.
func (h Handlers) SubmitNodeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var signedTx transaction.SignedTx
	if err := web.Decode(r, &signedTx); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("add node tran", "traceid", v.TraceID, "tx", signedTx)
	if err := h.State.SubmitNodeTransaction(signedTx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AddPeer adds the caller to this node's known peer list.
func (h Handlers) AddPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req addPeerRequest
	if err := web.Decode(r, &req); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	added := h.State.AddKnownPeer(peer.New(req.Host))
	if added {
		h.Log.Infow("add peer", "host", req.Host)
	}

	resp := struct {
		Status string `json:"status"`
		Added  bool   `json:"added"`
	}{
		Status: "peer processed",
		Added:  added,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// addPeerRequest is the payload for announcing a peer node.
type addPeerRequest struct {
	Host string `json:"host" validate:"required,hostname_port"`
}
