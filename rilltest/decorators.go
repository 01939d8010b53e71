package rilltest

import "github.com/iov-one/rill"

// Decorator is a mock implementation of the rill.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ rill.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx, next rill.Checker) (*rill.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx, next rill.Deliverer) (*rill.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate binds together a decorator and a handler into a new handler.
func Decorate(h rill.Handler, d rill.Decorator) rill.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn rill.Handler
	dc rill.Decorator
}

var _ rill.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx rill.Context, db rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
