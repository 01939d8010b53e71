/*
Package errors implements custom error interfaces for rill.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Errors are registered with a
unique code and a description. During the runtime an error is never created
directly but by wrapping one of the registered instances:

	errors.Wrap(errors.ErrNotFound, "no such stream")

Use the Is method of a registered error to test what category a returned
error belongs to:

	if errors.ErrNotFound.Is(err) { ... }

Testing by category instead of by value allows each layer to attach
additional context on the way up without breaking the callers.
*/
package errors
