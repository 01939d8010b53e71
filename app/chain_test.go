package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/rill/errors"
	"github.com/iov-one/rill/rilltest"
)

func TestChain(t *testing.T) {
	c1 := &rilltest.Decorator{}
	c2 := &rilltest.Decorator{}
	c3 := &rilltest.Decorator{}
	h := &rilltest.Handler{}

	stack := ChainDecorators(c1, nil, c2).
		Chain(c3).
		WithHandler(h)

	ctx := context.Background()

	if _, err := stack.Check(ctx, nil, nil); err != nil {
		t.Fatalf("check failed: %+v", err)
	}
	if _, err := stack.Deliver(ctx, nil, nil); err != nil {
		t.Fatalf("deliver failed: %+v", err)
	}

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainCutsOnError(t *testing.T) {
	c1 := &rilltest.Decorator{}
	c2 := &rilltest.Decorator{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	}
	c3 := &rilltest.Decorator{}
	h := &rilltest.Handler{}

	stack := ChainDecorators(c1, c2, c3).WithHandler(h)

	ctx := context.Background()

	_, err := stack.Check(ctx, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = stack.Deliver(ctx, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// The failing decorator must stop the chain before c3 and the handler.
	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 0, c3.CallCount())
	assert.Equal(t, 0, h.CallCount())
}
