package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rezkam/newsdesk/internal/clock"
	"github.com/rezkam/newsdesk/internal/domain"
)

// Controller drives one listing screen. It owns the filter inputs, pagination
// and retrieval bindings; every input change resolves the active facet, resets
// pagination and gates retrievals in a single critical section.
//
// Controller is safe for concurrent use. Close must be called on teardown.
type Controller[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger   *slog.Logger
	metrics  *metrics
	onChange func(domain.ViewState[T])

	debouncer *Debouncer

	mu        sync.Mutex
	rawSearch string
	inputs    domain.FacetInputs
	selection domain.Selection
	pages     Pagination
	bindings  map[domain.Facet]*binding[T]
	revision  uint64
	started   bool
	closed    bool

	notifyMu     sync.Mutex
	lastNotified uint64
}

// New creates a controller for one screen. ctx is the screen's cancellation
// token: cancelling it has the same effect on timers and requests as Close.
// No request is issued before Start.
func New[T any](ctx context.Context, bindings Bindings[T], opts ...Option[T]) (*Controller[T], error) {
	if err := bindings.validate(); err != nil {
		return nil, err
	}

	o := options[T]{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.clock == nil {
		o.clock = clock.Real()
	}

	ctx, cancel := context.WithCancel(ctx)
	c := &Controller[T]{
		ctx:       ctx,
		cancel:    cancel,
		logger:    o.logger,
		metrics:   newMetrics(o.meter),
		onChange:  o.onChange,
		rawSearch: o.inputs.SearchText,
		inputs:    o.inputs,
		pages:     NewPagination(o.pageSize),
		bindings:  make(map[domain.Facet]*binding[T], len(domain.Facets)),
	}
	for _, f := range domain.Facets {
		c.bindings[f] = &binding[T]{facet: f, retrieve: bindings.For(f)}
	}
	c.debouncer = NewDebouncer(ctx, o.clock, o.debounceWindow, c.commitSearch)

	c.selection = Resolve(c.inputs)
	c.pages.SetPage(o.page)

	if o.snapshot != nil {
		q := c.queryLocked()
		if q.ActiveFacet() == domain.FacetNone && q.Page == 1 {
			c.bindings[domain.FacetNone].hydrate(q, *o.snapshot)
		}
	}

	return c, nil
}

// Start mounts the screen and dispatches the active query unless a hydration
// snapshot already serves it.
func (c *Controller[T]) Start() {
	c.update(func() { c.started = true })
}

// Close cancels the pending debounce and in-flight requests, and waits for
// request goroutines to return. Results arriving afterwards are ignored.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, b := range c.bindings {
		if b.cancel != nil {
			b.cancel()
			b.cancel = nil
		}
	}
	c.mu.Unlock()

	c.debouncer.Close()
	c.cancel()
	c.wg.Wait()
}

// SetSearchText records raw search input. It reaches the resolver only after
// the debounce window passes without further input.
func (c *Controller[T]) SetSearchText(raw string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.rawSearch = raw
	c.revision++
	view := c.viewLocked()
	c.mu.Unlock()

	c.debouncer.Commit(raw)
	c.notify(view)
}

// FlushSearch commits pending search input immediately.
func (c *Controller[T]) FlushSearch() {
	c.debouncer.Flush()
}

// SearchPending reports whether search input is waiting for the debounce window.
func (c *Controller[T]) SearchPending() bool {
	return c.debouncer.Pending()
}

// commitSearch is the debouncer's publish target.
func (c *Controller[T]) commitSearch(q string) {
	c.update(func() {
		c.inputs.SearchText = q
		c.pages.Reset()
	})
}

// SetCategory sets the category filter. Empty clears it.
func (c *Controller[T]) SetCategory(category string) {
	category = strings.TrimSpace(category)
	c.update(func() { c.inputs.Category = category })
}

// SetStatus sets the status filter. Empty or "all" clears it.
func (c *Controller[T]) SetStatus(status string) error {
	status = strings.TrimSpace(status)
	if status == "" || strings.EqualFold(status, domain.StatusAll) {
		c.update(func() { c.inputs.Status = domain.StatusAll })
		return nil
	}

	cs, err := domain.NewContentStatus(status)
	if err != nil {
		return err
	}
	c.update(func() { c.inputs.Status = string(cs) })
	return nil
}

// ClearFilters drops pending search input and every filter, returning to the default listing.
func (c *Controller[T]) ClearFilters() {
	c.debouncer.Cancel()
	c.update(func() {
		c.rawSearch = ""
		c.inputs = domain.FacetInputs{Status: domain.StatusAll}
	})
}

// SetPage moves to page without touching the active facet.
func (c *Controller[T]) SetPage(page int) {
	c.update(func() { c.pages.SetPage(page) })
}

// NextPage advances one page unless the last known page of the current
// selection is showing.
func (c *Controller[T]) NextPage() {
	c.update(func() {
		state := c.activeLocked().state
		if state.Result != nil && state.ResultSelection == c.selection && c.pages.Page() >= state.Result.TotalPages {
			return
		}
		c.pages.SetPage(c.pages.Page() + 1)
	})
}

// PrevPage goes back one page, stopping at 1.
func (c *Controller[T]) PrevPage() {
	c.update(func() { c.pages.SetPage(c.pages.Page() - 1) })
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller[T]) SetPageSize(n int) {
	c.update(func() { c.pages.SetPageSize(n) })
}

// Retry reissues the active query after a RetrievalError. It reports false
// when the active facet has no error to retry.
func (c *Controller[T]) Retry() bool {
	retried := false
	c.update(func() {
		b := c.activeLocked()
		if b.state.Err == nil || b.state.InFlight {
			return
		}
		c.dispatchLocked(b, c.queryLocked())
		retried = true
	})
	return retried
}

// Refresh refetches the active query in the background, keeping the current
// result on screen. Suppressed facets are not touched.
func (c *Controller[T]) Refresh() {
	c.update(func() {
		if !c.started {
			return
		}
		c.dispatchLocked(c.activeLocked(), c.queryLocked())
	})
}

// Mutate runs fn and coordinates the refetch its outcome requires.
func (c *Controller[T]) Mutate(ctx context.Context, kind domain.MutationKind, fn func(context.Context) error) error {
	return c.AfterMutation(kind, fn(ctx))
}

// AfterMutation refetches the active facet after a successful mutation. On
// failure it issues nothing, leaves the list untouched and returns a
// MutationError for the caller to report.
func (c *Controller[T]) AfterMutation(kind domain.MutationKind, err error) error {
	c.metrics.add(c.ctx, c.metrics.mutations, mutationAttrs(kind, err))
	if err != nil {
		c.logger.WarnContext(c.ctx, "mutation failed, list left unchanged",
			slog.String("mutation", string(kind)),
			slog.String("error", err.Error()))
		return &MutationError{Kind: kind, Err: err}
	}

	c.Refresh()
	return nil
}

// View returns the current view state.
func (c *Controller[T]) View() domain.ViewState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// RawSearch returns the search text as typed, committed or not.
func (c *Controller[T]) RawSearch() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rawSearch
}

// update applies mutate and reconciles the derived state in one critical section.
func (c *Controller[T]) update(mutate func()) {
	c.mu.Lock()
	if c.closed || c.ctx.Err() != nil {
		c.mu.Unlock()
		return
	}

	mutate()
	c.reconcileLocked()
	c.revision++
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
}

// reconcileLocked resolves the active facet, resets pagination on a facet or
// value change, suppresses the facet that lost, and dispatches the active query
// if it is not already served.
func (c *Controller[T]) reconcileLocked() {
	next := Resolve(c.inputs)
	if next != c.selection {
		prev := c.selection
		c.selection = next
		c.pages.Reset()

		if prev.ActiveFacet() != next.ActiveFacet() {
			c.bindings[prev.ActiveFacet()].suppress()
		}
		c.logger.DebugContext(c.ctx, "listing facet resolved",
			slog.String("from", prev.String()),
			slog.String("to", next.String()))
	}

	if !c.started {
		return
	}

	q := c.queryLocked()
	b := c.bindings[q.ActiveFacet()]
	if b.current(q) {
		return
	}
	c.dispatchLocked(b, q)
}

func (c *Controller[T]) dispatchLocked(b *binding[T], q domain.ListingQuery) {
	ctx, seq := b.begin(c.ctx, q)
	retrieve := b.retrieve
	c.metrics.add(ctx, c.metrics.dispatched, facetAttr(b.facet))
	c.logger.DebugContext(ctx, "dispatching listing query",
		slog.String("selection", q.Selection.String()),
		slog.Int("page", q.Page),
		slog.Int("page_size", q.PageSize),
		slog.Uint64("seq", seq))

	c.wg.Go(func() {
		res, err := c.invoke(ctx, retrieve, q)
		c.complete(b, seq, q, res, err)
	})
}

// invoke runs the retrieval, converting a panic into an error so one bad
// binding cannot take the screen down.
func (c *Controller[T]) invoke(ctx context.Context, retrieve RetrieveFunc[T], q domain.ListingQuery) (res domain.ListingResult[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("retrieval panicked: %v", r)
		}
	}()
	return retrieve(ctx, q)
}

func (c *Controller[T]) complete(b *binding[T], seq uint64, q domain.ListingQuery, res domain.ListingResult[T], err error) {
	c.mu.Lock()
	if c.closed || c.ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	if !b.settle(seq, q, res, err) {
		c.mu.Unlock()
		c.metrics.add(c.ctx, c.metrics.discarded, facetAttr(b.facet))
		c.logger.DebugContext(c.ctx, "discarding superseded result",
			slog.String("selection", q.Selection.String()),
			slog.Int("page", q.Page),
			slog.Uint64("seq", seq))
		return
	}

	if err != nil {
		c.metrics.add(c.ctx, c.metrics.failed, facetAttr(b.facet))
		c.logger.WarnContext(c.ctx, "listing retrieval failed",
			slog.String("selection", q.Selection.String()),
			slog.Int("page", q.Page),
			slog.String("error", err.Error()))
	}

	c.revision++
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
}

func (c *Controller[T]) activeLocked() *binding[T] {
	return c.bindings[c.selection.ActiveFacet()]
}

func (c *Controller[T]) queryLocked() domain.ListingQuery {
	return domain.ListingQuery{
		Selection: c.selection,
		Page:      c.pages.Page(),
		PageSize:  c.pages.PageSize(),
	}
}

func (c *Controller[T]) viewLocked() domain.ViewState[T] {
	states := make(map[domain.Facet]RetrievalState[T], len(c.bindings))
	for f, b := range c.bindings {
		states[f] = b.state
	}

	view := Project(c.selection.ActiveFacet(), states)
	view.Query = c.queryLocked()
	view.Inputs = c.inputs
	view.Revision = c.revision
	return view
}

// notify delivers view to the observer, dropping views older than one already delivered.
func (c *Controller[T]) notify(view domain.ViewState[T]) {
	if c.onChange == nil {
		return
	}

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if view.Revision <= c.lastNotified {
		return
	}
	c.lastNotified = view.Revision
	c.onChange(view)
}
