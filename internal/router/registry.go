package router

import (
	"log/slog"
	"sort"
	"sync"
)

// Registry holds the registered evaluators in priority order and
// resolves field ownership. The evaluator set is fixed at construction;
// ownership lookups are cached and safe for concurrent use.
type Registry struct {
	evaluators []Evaluator

	mu     sync.RWMutex
	owners map[string]Evaluator

	log *slog.Logger
}

// NewRegistry builds a registry from the given evaluators. Evaluators
// are ordered by descending priority; registration order breaks ties,
// so ownership of a contested field is deterministic across restarts.
func NewRegistry(log *slog.Logger, evaluators ...Evaluator) *Registry {
	ordered := make([]Evaluator, len(evaluators))
	copy(ordered, evaluators)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() > ordered[j].Priority()
	})

	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		evaluators: ordered,
		owners:     make(map[string]Evaluator),
		log:        log,
	}
}

// Evaluators returns all evaluators in priority order, including
// disabled ones.
func (r *Registry) Evaluators() []Evaluator {
	out := make([]Evaluator, len(r.evaluators))
	copy(out, r.evaluators)
	return out
}

// EnabledEvaluators returns the enabled evaluators in priority order.
func (r *Registry) EnabledEvaluators() []Evaluator {
	out := make([]Evaluator, 0, len(r.evaluators))
	for _, ev := range r.evaluators {
		if ev.Enabled() {
			out = append(out, ev)
		}
	}
	return out
}

// OwnerOf resolves which evaluator handles the given condition field.
// The first enabled evaluator in priority order that claims the field
// owns it; later claimants are never consulted. Returns nil when no
// evaluator claims the field.
func (r *Registry) OwnerOf(field string) Evaluator {
	r.mu.RLock()
	owner, cached := r.owners[field]
	r.mu.RUnlock()
	if cached {
		return owner
	}

	for _, ev := range r.evaluators {
		if !ev.Enabled() {
			continue
		}
		if ev.CanEvaluateConditionField(field) {
			owner = ev
			break
		}
	}

	r.mu.Lock()
	r.owners[field] = owner
	r.mu.Unlock()

	if owner == nil {
		r.log.Debug("no evaluator claims condition field", "field", field)
	}
	return owner
}

// Metadata returns the self-description of every enabled evaluator, in
// priority order.
func (r *Registry) Metadata() []EvaluatorMetadata {
	out := make([]EvaluatorMetadata, 0, len(r.evaluators))
	for _, ev := range r.evaluators {
		if !ev.Enabled() {
			continue
		}
		out = append(out, ev.Metadata())
	}
	return out
}
