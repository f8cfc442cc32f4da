package evaluators

import (
	"context"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/router"
)

const certificationField = "certification"

// CertificationEvaluator routes by content rating (PG-13, TV-MA and the
// like). Ratings compare case-insensitively, so a rule authored with
// "pg-13" matches an item certified "PG-13".
type CertificationEvaluator struct {
	store router.RuleStore
}

func NewCertificationEvaluator(store router.RuleStore) *CertificationEvaluator {
	return &CertificationEvaluator{store: store}
}

func (e *CertificationEvaluator) Name() string { return "certification" }

func (e *CertificationEvaluator) Description() string {
	return "Routes content based on its certification rating"
}

func (e *CertificationEvaluator) Priority() int { return 50 }

func (e *CertificationEvaluator) Enabled() bool { return true }

func (e *CertificationEvaluator) Metadata() router.EvaluatorMetadata {
	return router.EvaluatorMetadata{
		Name:        e.Name(),
		Description: e.Description(),
		Priority:    e.Priority(),
		Fields: []router.FieldInfo{
			{
				Name:        certificationField,
				Description: "Content certification rating (G, PG, PG-13, R, TV-MA, ...)",
				ValueTypes:  []string{"string", "string[]"},
			},
		},
		FieldOperators: map[string][]router.OperatorInfo{
			certificationField: {
				{Name: router.OpEquals, Description: "Rating matches exactly", ValueTypes: []string{"string"}},
				{Name: router.OpNotEquals, Description: "Rating differs", ValueTypes: []string{"string"}},
				{Name: router.OpContains, Description: "Rating contains the text", ValueTypes: []string{"string"}},
				{Name: router.OpIn, Description: "Rating is one of the listed values", ValueTypes: []string{"string[]"}},
				{Name: router.OpNotIn, Description: "Rating is none of the listed values", ValueTypes: []string{"string[]"}},
			},
		},
	}
}

// certificationOf returns the item's rating, falling back to the
// metadata bag for providers that only report it there.
func certificationOf(item models.ContentItem) string {
	if item.Certification != "" {
		return item.Certification
	}
	if v, ok := item.MetadataValue(certificationField); ok {
		return v
	}
	return ""
}

func (e *CertificationEvaluator) CanEvaluate(ctx context.Context, item models.ContentItem, rctx router.Context) (bool, error) {
	return certificationOf(item) != "", nil
}

func (e *CertificationEvaluator) EvaluateRouting(ctx context.Context, item models.ContentItem, rctx router.Context) ([]router.RoutingDecision, error) {
	rating := certificationOf(item)
	if rating == "" {
		return nil, nil
	}
	return routeByCriteria(ctx, e.store, certificationField, item.Type.TargetType(), func(value router.ConditionValue) bool {
		return matchString(router.OpIn, rating, value, upper)
	})
}

func (e *CertificationEvaluator) CanEvaluateConditionField(field string) bool {
	return field == certificationField
}

func (e *CertificationEvaluator) EvaluateCondition(ctx context.Context, cond *router.Condition, item models.ContentItem, rctx router.Context) (bool, error) {
	switch cond.Operator {
	case router.OpEquals, router.OpNotEquals, router.OpContains, router.OpIn, router.OpNotIn:
		return matchString(cond.Operator, certificationOf(item), cond.Value, upper), nil
	default:
		return false, nil
	}
}
