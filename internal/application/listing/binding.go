package listing

import (
	"context"

	"github.com/rezkam/newsdesk/internal/domain"
)

// RetrievalState is the observable state of one facet's retrieval.
type RetrievalState[T any] struct {
	Ran      bool // dispatched at least once since the facet became active
	InFlight bool
	Query    domain.ListingQuery // last dispatched query
	Result   *domain.ListingResult[T]
	Err      error

	// ResultSelection is the selection Result was retrieved for. It lags
	// Query.Selection while a request for another value is outstanding.
	ResultSelection domain.Selection
}

// priorResult reports whether Result was retrieved for the selection of the
// last dispatched query. Another value's rows never stand in for this one.
func (s RetrievalState[T]) priorResult() bool {
	return s.Result != nil && s.ResultSelection == s.Query.Selection
}

// binding is the gated retrieval of one facet. Only the active facet's binding
// dispatches; the others stay suppressed and issue nothing.
//
// Every dispatch bumps seq. A completion is accepted only if it carries the
// current seq, so the last dispatched query wins regardless of arrival order.
type binding[T any] struct {
	facet    domain.Facet
	retrieve RetrieveFunc[T]

	seq    uint64
	cancel context.CancelFunc
	state  RetrievalState[T]
}

// begin cancels any in-flight request and starts a new one for q.
func (b *binding[T]) begin(parent context.Context, q domain.ListingQuery) (context.Context, uint64) {
	if b.cancel != nil {
		b.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	b.cancel = cancel
	b.seq++

	b.state.Ran = true
	b.state.InFlight = true
	b.state.Query = q
	b.state.Err = nil
	return ctx, b.seq
}

// settle records the outcome of dispatch seq. It reports false when the
// dispatch was superseded and the outcome must be discarded.
func (b *binding[T]) settle(seq uint64, q domain.ListingQuery, res domain.ListingResult[T], err error) bool {
	if seq != b.seq || !b.state.InFlight {
		return false
	}
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}

	b.state.InFlight = false
	if err != nil {
		b.state.Err = &RetrievalError{Query: q, Err: err}
		return true
	}
	b.state.Result = &res
	b.state.ResultSelection = q.Selection
	b.state.Err = nil
	return true
}

// suppress gates the binding out: the in-flight request is cancelled, its
// outcome will be discarded, and the next activation starts from scratch.
func (b *binding[T]) suppress() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.seq++
	b.state = RetrievalState[T]{}
}

// hydrate seeds the binding with a pre-fetched result for q without marking it as run.
func (b *binding[T]) hydrate(q domain.ListingQuery, res domain.ListingResult[T]) {
	b.state.Query = q
	b.state.Result = &res
	b.state.ResultSelection = q.Selection
}

// current reports whether q is already served or being served.
func (b *binding[T]) current(q domain.ListingQuery) bool {
	if b.state.Query != q {
		return false
	}
	return b.state.Ran || b.state.Result != nil
}
