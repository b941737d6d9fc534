package suggest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"meal-suggester/internal/meal"
	"meal-suggester/internal/plan"
)

// Engine produces meal suggestions for a planner slot and exposes a single
// observable presentation state. It is designed for one visible suggestion
// surface but tolerates rapid overlapping triggers: every filter change
// claims a new generation and cancels the computation still in flight. A
// result is applied only while its generation is still the authoritative
// one, so the last requested context always wins over whichever
// computation happens to finish first.
type Engine struct {
	library  meal.Library
	history  plan.HistorySource
	recorder plan.Recorder
	scorer   *Scorer
	limit    int

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
	active *intent
	notify func(State)
}

// intent holds the user-controlled inputs of the active context. The
// exclusion set is resolved asynchronously when a computation runs.
type intent struct {
	date   time.Time
	slot   plan.Slot
	tags   []meal.Tag
	search string
}

// NewEngine creates an Engine over the given accessors. recorder may be
// nil when the consumer never commits suggestions.
func NewEngine(library meal.Library, history plan.HistorySource, recorder plan.Recorder, weights Weights, limit int) *Engine {
	return &Engine{
		library:  library,
		history:  history,
		recorder: recorder,
		scorer:   NewScorer(weights),
		limit:    limit,
		state:    Hidden(),
	}
}

// Notify registers an observer invoked after every state transition.
// Superseded computations never reach it.
func (e *Engine) Notify(fn func(State)) {
	e.mu.Lock()
	e.notify = fn
	e.mu.Unlock()
}

// State returns the current presentation state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// RequestSuggestions begins a new Loading cycle for the given slot.
func (e *Engine) RequestSuggestions(date time.Time, slot plan.Slot) {
	e.mu.Lock()
	e.active = &intent{date: date, slot: slot}
	st := e.trigger()
	fn := e.notify
	e.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

// UpdateTagFilter toggles tag membership in the active context and
// re-triggers computation. A no-op when no context is active.
func (e *Engine) UpdateTagFilter(tag meal.Tag) {
	e.mu.Lock()
	if e.active == nil {
		e.mu.Unlock()
		return
	}
	next := *e.active
	next.tags = toggleTag(e.active.tags, tag)
	e.active = &next
	st := e.trigger()
	fn := e.notify
	e.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

// UpdateSearchQuery replaces the search text in the active context and
// re-triggers computation. A no-op when no context is active.
func (e *Engine) UpdateSearchQuery(text string) {
	e.mu.Lock()
	if e.active == nil {
		e.mu.Unlock()
		return
	}
	next := *e.active
	next.search = text
	e.active = &next
	st := e.trigger()
	fn := e.notify
	e.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

// Dismiss transitions to Hidden and invalidates any in-flight computation.
func (e *Engine) Dismiss() {
	e.mu.Lock()
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.active = nil
	e.state = Hidden()
	st := e.state
	fn := e.notify
	e.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

// SelectSuggestion commits a suggestion to the plan for the active slot.
// The actual mutation is delegated to the plan recorder; the engine's
// state is left untouched so the consumer decides when to re-request.
func (e *Engine) SelectSuggestion(ctx context.Context, mealID string) error {
	e.mu.Lock()
	active := e.active
	e.mu.Unlock()

	if active == nil {
		return fmt.Errorf("no active suggestion context")
	}
	if e.recorder == nil {
		return fmt.Errorf("no plan recorder configured")
	}
	return e.recorder.Add(ctx, plan.Record{
		MealID: mealID,
		Date:   active.date,
		Slot:   active.slot,
	})
}

// trigger claims a new generation, cancels superseded work and starts a
// fresh computation. Must be called with e.mu held; returns the Loading
// state for notification after unlock.
func (e *Engine) trigger() State {
	e.gen++
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.state = Loading()

	gen := e.gen
	in := *e.active
	go e.compute(ctx, gen, in)

	return e.state
}

// compute runs one full suggestion cycle over immutable inputs. Accessor
// failures surface as the Error state; a computation either fully
// succeeds, fully empties, or fully errors.
func (e *Engine) compute(ctx context.Context, gen uint64, in intent) {
	exclude, err := e.history.PlansInWeek(ctx, in.date)
	if err != nil {
		e.apply(gen, Error(fmt.Sprintf("failed to load planned meals: %v", err)))
		return
	}

	sctx := NewContext(in.date, in.slot, in.tags, in.search, exclude)

	library, err := e.library.FetchAllMeals(ctx)
	if err != nil {
		e.apply(gen, Error(fmt.Sprintf("failed to load meal library: %v", err)))
		return
	}

	candidates := FilterCandidates(library, sctx)

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, m := range candidates {
		h, err := e.history.HistoryFor(ctx, m.ID)
		if err != nil {
			e.apply(gen, Error(fmt.Sprintf("failed to load plan history: %v", err)))
			return
		}
		suggestions = append(suggestions, e.scorer.Score(m, sctx, h))
	}

	ranked := Rank(suggestions, e.limit)
	e.apply(gen, classify(ranked, len(library), sctx))
}

// apply installs a computation result unless it has been superseded, in
// which case it is discarded silently with no state transition.
func (e *Engine) apply(gen uint64, st State) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.state = st
	fn := e.notify
	e.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

func toggleTag(tags []meal.Tag, tag meal.Tag) []meal.Tag {
	next := make([]meal.Tag, 0, len(tags)+1)
	removed := false
	for _, t := range tags {
		if t == tag {
			removed = true
			continue
		}
		next = append(next, t)
	}
	if !removed {
		next = append(next, tag)
	}
	return next
}
