package listing

import "github.com/rezkam/newsdesk/internal/domain"

// Project derives the view of the active facet from the retrieval states.
// States of other facets are ignored.
//
// A facet that never ran but holds a result was hydrated from a server-rendered
// snapshot; only the default listing is ever hydrated, so only it can be Ready
// before its first request.
//
// While a request is outstanding the last result stays visible, even one
// retrieved for another value of the facet. Once that request fails, only a
// result for the same selection counts as prior; otherwise the view is Error.
func Project[T any](active domain.Facet, states map[domain.Facet]RetrievalState[T]) domain.ViewState[T] {
	s := states[active]
	view := domain.ViewState[T]{
		Result: s.Result,
		Err:    s.Err,
		Query:  s.Query,
	}

	switch {
	case !s.Ran && s.Result == nil:
		view.Phase = domain.PhaseIdle
	case !s.Ran:
		view.Phase = domain.PhaseReady
	case s.InFlight && s.Result == nil:
		view.Phase = domain.PhaseLoading
	case s.InFlight:
		view.Phase = domain.PhaseBackgroundRefreshing
	case s.Err != nil && !s.priorResult():
		view.Phase = domain.PhaseError
		view.Result = nil
	case s.Result != nil:
		view.Phase = domain.PhaseReady
	default:
		view.Phase = domain.PhaseIdle
	}
	return view
}
