package rilltest

import "github.com/iov-one/rill"

// Handler is a mock implementation of the rill.Handler interface.
//
// Each method call is counted and the configured result and error are
// returned.
type Handler struct {
	checkCall   int
	CheckResult rill.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult rill.DeliverResult
	DeliverErr    error
}

var _ rill.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
