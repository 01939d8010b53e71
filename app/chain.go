package app

import (
	rill "github.com/iov-one/rill"
)

// Decorators holds a chain of decorators, not yet resolved into a
// Handler.
type Decorators struct {
	chain []rill.Decorator
}

// ChainDecorators takes a chain of decorators and, upon adding a final
// Handler, will execute them in the order given.
func ChainDecorators(chain ...rill.Decorator) Decorators {
	return Decorators{
		chain: cutoffNil(chain),
	}
}

// Chain appends more decorators to the stack.
func (d Decorators) Chain(chain ...rill.Decorator) Decorators {
	return Decorators{
		chain: append(d.chain, cutoffNil(chain)...),
	}
}

// cutoffNil removes nil decorators, so optional decorators can be
// passed in without guards at the call site.
func cutoffNil(chain []rill.Decorator) []rill.Decorator {
	res := make([]rill.Decorator, 0, len(chain))
	for _, d := range chain {
		if d != nil {
			res = append(res, d)
		}
	}
	return res
}

// WithHandler resolves the stack and returns a concrete Handler that
// runs every decorator in order before the final handler.
func (d Decorators) WithHandler(h rill.Handler) rill.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step binds one decorator with the handler it wraps, itself
// fulfilling the Handler interface.
type step struct {
	d    rill.Decorator
	next rill.Handler
}

var _ rill.Handler = step{}

func (s step) Check(ctx rill.Context, store rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx rill.Context, store rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
