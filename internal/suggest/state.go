package suggest

// Kind identifies which presentation state is active. Exactly one is
// active at a time; transitions are driven only by the engine.
type Kind string

const (
	KindHidden  Kind = "hidden"
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindEmpty   Kind = "empty"
	KindError   Kind = "error"
)

// EmptyReason classifies a zero-suggestion result into an actionable
// sub-state instead of a single generic empty screen.
type EmptyReason string

const (
	EmptyNoMealsInLibrary            EmptyReason = "no_meals_in_library"
	EmptyNoMatchesForFilters         EmptyReason = "no_matches_for_filters"
	EmptyAllCandidatesAlreadyPlanned EmptyReason = "all_candidates_already_planned"
)

// State is the presentation state as a tagged variant: Kind selects the
// variant, the payload fields are only set for the kinds that carry one.
type State struct {
	Kind Kind

	// Success payload.
	Suggestions []Suggestion
	Context     *SuggestionContext

	// Empty payload.
	Reason EmptyReason

	// Error payload.
	Message string
}

// Hidden returns the dismissed state.
func Hidden() State { return State{Kind: KindHidden} }

// Loading returns the in-flight state.
func Loading() State { return State{Kind: KindLoading} }

// Success returns a result state carrying the ordered suggestions and the
// context they originated from.
func Success(suggestions []Suggestion, sctx *SuggestionContext) State {
	return State{Kind: KindSuccess, Suggestions: suggestions, Context: sctx}
}

// Empty returns a zero-result state with its classified reason.
func Empty(reason EmptyReason) State { return State{Kind: KindEmpty, Reason: reason} }

// Error returns a failure state with a consumer-facing message.
func Error(message string) State { return State{Kind: KindError, Message: message} }

// classify maps a completed ranking to its presentation state. The empty
// reason is resolved in a fixed order: empty library first, then active
// filters, then a fully planned week.
func classify(ranked []Suggestion, librarySize int, sctx *SuggestionContext) State {
	if len(ranked) > 0 {
		return Success(ranked, sctx)
	}
	if librarySize == 0 {
		return Empty(EmptyNoMealsInLibrary)
	}
	if sctx.HasFilters() {
		return Empty(EmptyNoMatchesForFilters)
	}
	return Empty(EmptyAllCandidatesAlreadyPlanned)
}
