package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/rilltest"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	counter := &rilltest.Handler{}
	r.Handle("test/good", counter)
	r.Handle("test/bad", &rilltest.Handler{
		CheckErr:   errors.ErrHuman,
		DeliverErr: errors.ErrHuman,
	})

	// Invalid registrations must panic.
	assert.Panics(t, func() { r.Handle("test/good", counter) })
	assert.Panics(t, func() { r.Handle("l:7", counter) })

	ctx := context.Background()

	goodTx := &rilltest.Tx{Msg: &rilltest.Msg{RoutePath: "test/good"}}
	if _, err := r.Check(ctx, nil, goodTx); err != nil {
		t.Fatalf("check failed: %+v", err)
	}
	if _, err := r.Deliver(ctx, nil, goodTx); err != nil {
		t.Fatalf("deliver failed: %+v", err)
	}
	assert.Equal(t, 1, counter.CheckCallCount())
	assert.Equal(t, 1, counter.DeliverCallCount())

	// A registered handler that fails is still routed to.
	badTx := &rilltest.Tx{Msg: &rilltest.Msg{RoutePath: "test/bad"}}
	_, err := r.Deliver(ctx, nil, badTx)
	assert.True(t, errors.ErrHuman.Is(err))

	// Unknown paths must be routed to a handler that always fails.
	missingTx := &rilltest.Tx{Msg: &rilltest.Msg{RoutePath: "test/missing"}}
	_, err = r.Check(ctx, nil, missingTx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(ctx, nil, missingTx)
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, counter.CallCount())
}
