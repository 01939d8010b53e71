package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/rill"
	"github.com/iov-one/rill/errors"
)

var isPath = regexp.MustCompile(`^[a-z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the registered handler.
type Router struct {
	handlers map[string]rill.Handler
}

var _ rill.Registry = (*Router)(nil)
var _ rill.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]rill.Handler),
	}
}

// Handle implements rill.Registry interface. It panics if a handler for
// given path was already registered or if the path is invalid.
func (r *Router) Handle(path string, h rill.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.handlers[path]; ok {
		panic(fmt.Sprintf("handler for path %q already registered", path))
	}
	r.handlers[path] = h
}

// Handler returns the registered Handler for this path. If no path is found,
// it returns a noSuchPathHandler that returns an error for every call.
func (r *Router) Handler(path string) rill.Handler {
	if h, ok := r.handlers[path]; ok {
		return h
	}
	return noSuchPathHandler{path: path}
}

// Check dispatches to the proper handler based on path.
func (r *Router) Check(ctx rill.Context, store rill.KVStore, tx rill.Tx) (*rill.CheckResult, error) {
	return r.Handler(rill.GetPath(tx)).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path.
func (r *Router) Deliver(ctx rill.Context, store rill.KVStore, tx rill.Tx) (*rill.DeliverResult, error) {
	return r.Handler(rill.GetPath(tx)).Deliver(ctx, store, tx)
}

// noSuchPathHandler always returns ErrNotFound with the path information.
type noSuchPathHandler struct {
	path string
}

var _ rill.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(rill.Context, rill.KVStore, rill.Tx) (*rill.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(rill.Context, rill.KVStore, rill.Tx) (*rill.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
