package main

import (
	"context"
	"io"
	"log/slog"
	"reflect"
)

// shutdowner is the authenticator as seen by the cleanup hook.
type shutdowner interface {
	Shutdown(context.Context) error
}

// closer names a resource for the shutdown log. A nil Closer is skipped.
type closer struct {
	name string
	io.Closer
}

// newCleanup returns the shutdown hook: drain pending last-used updates first,
// then close the remaining resources in order. The store goes last because the
// authenticator still writes to it while draining.
func newCleanup(ctx context.Context, authenticator shutdowner, closers ...closer) func() {
	return func() {
		if !isNil(authenticator) {
			if err := authenticator.Shutdown(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to shut down authenticator", slog.Any("error", err))
			}
		}

		for _, c := range closers {
			if isNil(c.Closer) {
				continue
			}
			if err := c.Close(); err != nil {
				slog.ErrorContext(ctx, "failed to close "+c.name, slog.Any("error", err))
			}
		}
	}
}

// isNil also catches typed nil pointers stored in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
