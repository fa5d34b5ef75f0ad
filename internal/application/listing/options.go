package listing

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/rezkam/newsdesk/internal/clock"
	"github.com/rezkam/newsdesk/internal/domain"
)

type options[T any] struct {
	clock          clock.Clock
	debounceWindow time.Duration
	pageSize       int
	page           int
	inputs         domain.FacetInputs
	snapshot       *domain.ListingResult[T]
	onChange       func(domain.ViewState[T])
	logger         *slog.Logger
	meter          metric.Meter
}

// Option configures a Controller.
type Option[T any] func(*options[T])

// WithClock sets the clock driving the debounce window.
func WithClock[T any](c clock.Clock) Option[T] {
	return func(o *options[T]) { o.clock = c }
}

// WithDebounceWindow sets the search quiescence window.
func WithDebounceWindow[T any](d time.Duration) Option[T] {
	return func(o *options[T]) { o.debounceWindow = d }
}

// WithPageSize sets the initial page size.
func WithPageSize[T any](n int) Option[T] {
	return func(o *options[T]) { o.pageSize = n }
}

// WithPage sets the initial page, e.g. from a bookmarked URL.
func WithPage[T any](page int) Option[T] {
	return func(o *options[T]) { o.page = page }
}

// WithInputs seeds the filter inputs on mount. SearchText is taken as already committed.
func WithInputs[T any](in domain.FacetInputs) Option[T] {
	return func(o *options[T]) { o.inputs = in }
}

// WithSnapshot seeds the default listing's first page with a pre-fetched result.
// It is ignored unless the screen mounts on the default listing, page 1.
func WithSnapshot[T any](res domain.ListingResult[T]) Option[T] {
	return func(o *options[T]) { o.snapshot = &res }
}

// WithOnChange registers an observer called after every state change, outside
// the controller's lock, with strictly increasing revisions. It must not block
// and must not call back into the controller's setters synchronously.
func WithOnChange[T any](fn func(domain.ViewState[T])) Option[T] {
	return func(o *options[T]) { o.onChange = fn }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(o *options[T]) { o.logger = l }
}

// WithMeter sets the meter used for retrieval counters. Defaults to the global provider.
func WithMeter[T any](m metric.Meter) Option[T] {
	return func(o *options[T]) { o.meter = m }
}
