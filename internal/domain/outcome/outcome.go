// Package outcome provides an explicit success-or-failure result type and an
// ordered fallback combinator over it.
package outcome

import (
	"context"

	"github.com/okian/beachvis/internal/domain/viserr"
)

// Result holds either a value or a classified failure, never both.
type Result[T any] struct {
	value T
	err   *viserr.Error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failure. A nil error is promoted to an unknown failure so that
// an Err result is never mistaken for success.
func Err[T any](e *viserr.Error) Result[T] {
	if e == nil {
		e = viserr.From(errNilFailure, viserr.Request{})
	}
	return Result[T]{err: e}
}

// IsOk reports whether r carries a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Value returns the value, or the zero value for a failure.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure, or nil on success.
func (r Result[T]) Err() *viserr.Error { return r.err }

// Unpack returns the value and the failure as a Go pair.
func (r Result[T]) Unpack() (T, *viserr.Error) { return r.value, r.err }

// Map transforms the value of a successful result.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.IsOk() {
		return Result[U]{err: r.err}
	}
	return Ok(fn(r.value))
}

// Strategy is one named way of producing a value.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) Result[T]
}

// FirstSuccess runs strategies in order and returns the first success
// together with the name of the strategy that produced it. When every
// strategy fails the failures are aggregated and the last one decides the
// category. A cancelled ctx stops the sequence before the next strategy.
func FirstSuccess[T any](ctx context.Context, strategies ...Strategy[T]) (Result[T], string) {
	var errs []*viserr.Error
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, viserr.Classify(err, viserr.Request{Endpoint: s.Name}))
			break
		}
		r := s.Run(ctx)
		if r.IsOk() {
			return r, s.Name
		}
		errs = append(errs, r.err)
	}
	if len(errs) == 0 {
		return Err[T](viserr.From(errNoStrategies, viserr.Request{})), ""
	}
	return Err[T](viserr.Aggregate(errs...)), ""
}
