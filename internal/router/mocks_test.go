package router

import (
	"context"
	"errors"

	"github.com/jamcalli/pulsarr/internal/models"
)

// fakeEvaluator is a configurable evaluator for registry, tree and
// resolver tests.
type fakeEvaluator struct {
	name     string
	priority int
	enabled  bool
	fields   map[string]bool

	// condition evaluation
	condResult bool
	condErr    error
	condCalls  int
	fieldCalls int

	// routing evaluation
	routeResult []RoutingDecision
	routeErr    error
	routeCalls  int
	applicable  bool
}

func newFakeEvaluator(name string, priority int, fields ...string) *fakeEvaluator {
	owned := make(map[string]bool, len(fields))
	for _, f := range fields {
		owned[f] = true
	}
	return &fakeEvaluator{
		name:       name,
		priority:   priority,
		enabled:    true,
		fields:     owned,
		applicable: true,
	}
}

func (f *fakeEvaluator) Name() string        { return f.name }
func (f *fakeEvaluator) Description() string { return "test evaluator" }
func (f *fakeEvaluator) Priority() int       { return f.priority }
func (f *fakeEvaluator) Enabled() bool       { return f.enabled }

func (f *fakeEvaluator) Metadata() EvaluatorMetadata {
	return EvaluatorMetadata{Name: f.name, Priority: f.priority}
}

func (f *fakeEvaluator) CanEvaluate(ctx context.Context, item models.ContentItem, rctx Context) (bool, error) {
	return f.applicable, nil
}

func (f *fakeEvaluator) EvaluateRouting(ctx context.Context, item models.ContentItem, rctx Context) ([]RoutingDecision, error) {
	f.routeCalls++
	if f.routeErr != nil {
		return nil, f.routeErr
	}
	return f.routeResult, nil
}

func (f *fakeEvaluator) CanEvaluateConditionField(field string) bool {
	f.fieldCalls++
	return f.fields[field]
}

func (f *fakeEvaluator) EvaluateCondition(ctx context.Context, cond *Condition, item models.ContentItem, rctx Context) (bool, error) {
	f.condCalls++
	return f.condResult, f.condErr
}

// fakeStore serves canned rules and can be told to fail.
type fakeStore struct {
	rules     []*models.RouterRule
	byKind    map[string][]*models.RouterRule
	err       error
	loadCalls int
	kindCalls int
}

var errStoreDown = errors.New("store unavailable")

func (s *fakeStore) GetAllEnabledRules(ctx context.Context, targetType models.TargetType) ([]*models.RouterRule, error) {
	s.loadCalls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*models.RouterRule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.TargetType == targetType && r.IsEnabled() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) GetRulesByType(ctx context.Context, kind string) ([]*models.RouterRule, error) {
	s.kindCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.byKind[kind], nil
}
