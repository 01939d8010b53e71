package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
)

type panicHandler struct{}

var _ rill.Handler = panicHandler{}

func (panicHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	panic("deliver panic")
}

func TestRecovery(t *testing.T) {
	var rec Recovery
	ctx := context.Background()

	_, err := rec.Check(ctx, nil, nil, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = rec.Deliver(ctx, nil, nil, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err))
}
