package cash

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/migration"
	"github.com/iov-one/rill/x"
)

const sendTxCost int64 = 100

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r rill.Registry, auth x.Authenticator, control Controller) {
	r = migration.SchemaMigratingRegistry("cash", r)
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// SendHandler will handle sending coins.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ rill.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg.
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h SendHandler) Check(ctx rill.Context, store rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	var msg SendMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// Make sure we have permission from the source.
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.ErrUnauthorized
	}

	return &rill.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to destination if all preconditions
// are met.
func (h SendHandler) Deliver(ctx rill.Context, store rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	var msg SendMsg
	if err := rill.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.ErrUnauthorized
	}

	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}

	return &rill.DeliverResult{}, nil
}
