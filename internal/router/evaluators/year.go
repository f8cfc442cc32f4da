package evaluators

import (
	"context"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/router"
)

const yearField = "year"

// YearEvaluator routes by release year. It is the only built-in
// evaluator with numeric operators, including between over a
// min/max range.
type YearEvaluator struct {
	store router.RuleStore
}

func NewYearEvaluator(store router.RuleStore) *YearEvaluator {
	return &YearEvaluator{store: store}
}

func (e *YearEvaluator) Name() string { return "year" }

func (e *YearEvaluator) Description() string {
	return "Routes content based on its release year"
}

func (e *YearEvaluator) Priority() int { return 55 }

func (e *YearEvaluator) Enabled() bool { return true }

func (e *YearEvaluator) Metadata() router.EvaluatorMetadata {
	return router.EvaluatorMetadata{
		Name:        e.Name(),
		Description: e.Description(),
		Priority:    e.Priority(),
		Fields: []router.FieldInfo{
			{
				Name:        yearField,
				Description: "Release year of the content item",
				ValueTypes:  []string{"number", "number[]", "range"},
			},
		},
		FieldOperators: map[string][]router.OperatorInfo{
			yearField: {
				{Name: router.OpEquals, Description: "Year matches exactly", ValueTypes: []string{"number"}},
				{Name: router.OpNotEquals, Description: "Year differs", ValueTypes: []string{"number"}},
				{Name: router.OpGreaterThan, Description: "Year is after", ValueTypes: []string{"number"}},
				{Name: router.OpLessThan, Description: "Year is before", ValueTypes: []string{"number"}},
				{Name: router.OpBetween, Description: "Year falls within the range", ValueTypes: []string{"range"}, ValueFormat: `{"min": 1990, "max": 1999}`},
				{Name: router.OpIn, Description: "Year is one of the listed values", ValueTypes: []string{"number[]"}},
				{Name: router.OpNotIn, Description: "Year is none of the listed values", ValueTypes: []string{"number[]"}},
			},
		},
	}
}

func (e *YearEvaluator) CanEvaluate(ctx context.Context, item models.ContentItem, rctx router.Context) (bool, error) {
	return item.Year > 0, nil
}

func (e *YearEvaluator) EvaluateRouting(ctx context.Context, item models.ContentItem, rctx router.Context) ([]router.RoutingDecision, error) {
	if item.Year <= 0 {
		return nil, nil
	}
	return routeByCriteria(ctx, e.store, yearField, item.Type.TargetType(), func(value router.ConditionValue) bool {
		// A criteria value may be a single year, a list, or a range.
		year := float64(item.Year)
		if matchNumber(router.OpIn, year, value) {
			return true
		}
		return matchNumber(router.OpBetween, year, value)
	})
}

func (e *YearEvaluator) CanEvaluateConditionField(field string) bool {
	return field == yearField
}

func (e *YearEvaluator) EvaluateCondition(ctx context.Context, cond *router.Condition, item models.ContentItem, rctx router.Context) (bool, error) {
	return matchNumber(cond.Operator, float64(item.Year), cond.Value), nil
}
