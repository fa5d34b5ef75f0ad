package domain

// Phase is the display phase of a listing screen.
type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseLoading              Phase = "loading"
	PhaseReady                Phase = "ready"
	PhaseBackgroundRefreshing Phase = "refreshing"
	PhaseError                Phase = "error"
)

// ViewState is the derived, render-ready state of a listing screen.
//
// Result is nil only in Idle, Loading and Error. With a prior result and a
// failed refetch the phase stays Ready and Err carries the non-blocking failure.
type ViewState[T any] struct {
	Phase    Phase
	Result   *ListingResult[T]
	Err      error
	Query    ListingQuery
	Inputs   FacetInputs
	Revision uint64 // increases with every published change
}

// HasResult reports whether a result is available to render.
func (v ViewState[T]) HasResult() bool {
	return v.Result != nil
}

// Busy reports whether a retrieval is in flight for the active facet.
func (v ViewState[T]) Busy() bool {
	return v.Phase == PhaseLoading || v.Phase == PhaseBackgroundRefreshing
}
