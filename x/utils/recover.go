package utils

import (
	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ rill.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx rill.Context, store rill.KVStore, tx rill.Tx, next rill.Checker) (_ *rill.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx rill.Context, store rill.KVStore, tx rill.Tx, next rill.Deliverer) (_ *rill.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
