package evaluators

import (
	"context"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/router"
)

const genreField = "genre"

// GenreEvaluator routes by the item's genre list. Positive operators
// match when any genre qualifies; negated operators require that none
// does.
type GenreEvaluator struct {
	store router.RuleStore
}

func NewGenreEvaluator(store router.RuleStore) *GenreEvaluator {
	return &GenreEvaluator{store: store}
}

func (e *GenreEvaluator) Name() string { return "genre" }

func (e *GenreEvaluator) Description() string {
	return "Routes content based on its genres"
}

func (e *GenreEvaluator) Priority() int { return 70 }

func (e *GenreEvaluator) Enabled() bool { return true }

func (e *GenreEvaluator) Metadata() router.EvaluatorMetadata {
	return router.EvaluatorMetadata{
		Name:        e.Name(),
		Description: e.Description(),
		Priority:    e.Priority(),
		Fields: []router.FieldInfo{
			{
				Name:        genreField,
				Description: "Genres attached to the content item",
				ValueTypes:  []string{"string", "string[]"},
			},
		},
		FieldOperators: map[string][]router.OperatorInfo{
			genreField: {
				{Name: router.OpEquals, Description: "Any genre matches exactly", ValueTypes: []string{"string"}},
				{Name: router.OpNotEquals, Description: "No genre matches", ValueTypes: []string{"string"}},
				{Name: router.OpContains, Description: "Any genre contains the text", ValueTypes: []string{"string"}},
				{Name: router.OpNotContains, Description: "No genre contains the text", ValueTypes: []string{"string"}},
				{Name: router.OpIn, Description: "Any genre is in the listed values", ValueTypes: []string{"string[]"}},
				{Name: router.OpNotIn, Description: "No genre is in the listed values", ValueTypes: []string{"string[]"}},
				{Name: router.OpRegex, Description: "Any genre matches the pattern", ValueTypes: []string{"string"}, ValueFormat: "RE2 regular expression"},
			},
		},
	}
}

func (e *GenreEvaluator) CanEvaluate(ctx context.Context, item models.ContentItem, rctx router.Context) (bool, error) {
	return len(item.Genres) > 0, nil
}

func (e *GenreEvaluator) EvaluateRouting(ctx context.Context, item models.ContentItem, rctx router.Context) ([]router.RoutingDecision, error) {
	if len(item.Genres) == 0 {
		return nil, nil
	}
	return routeByCriteria(ctx, e.store, genreField, item.Type.TargetType(), func(value router.ConditionValue) bool {
		return matchStringList(router.OpIn, item.Genres, value, lower)
	})
}

func (e *GenreEvaluator) CanEvaluateConditionField(field string) bool {
	return field == genreField || field == "genres"
}

func (e *GenreEvaluator) EvaluateCondition(ctx context.Context, cond *router.Condition, item models.ContentItem, rctx router.Context) (bool, error) {
	return matchStringList(cond.Operator, item.Genres, cond.Value, lower), nil
}
