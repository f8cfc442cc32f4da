package evaluators

import (
	"context"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/router"
)

const userField = "user"

// UserEvaluator routes by the requesting user. Requests without a user
// in context cause the evaluator to abstain rather than match nothing,
// so user rules have no effect on system-initiated routing.
type UserEvaluator struct {
	store router.RuleStore
}

func NewUserEvaluator(store router.RuleStore) *UserEvaluator {
	return &UserEvaluator{store: store}
}

func (e *UserEvaluator) Name() string { return "user" }

func (e *UserEvaluator) Description() string {
	return "Routes content based on the requesting user"
}

func (e *UserEvaluator) Priority() int { return 80 }

func (e *UserEvaluator) Enabled() bool { return true }

func (e *UserEvaluator) Metadata() router.EvaluatorMetadata {
	return router.EvaluatorMetadata{
		Name:        e.Name(),
		Description: e.Description(),
		Priority:    e.Priority(),
		Fields: []router.FieldInfo{
			{
				Name:        userField,
				Description: "Name or ID of the user who requested the content",
				ValueTypes:  []string{"string", "string[]"},
			},
		},
		FieldOperators: map[string][]router.OperatorInfo{
			userField: {
				{Name: router.OpEquals, Description: "User matches exactly", ValueTypes: []string{"string"}},
				{Name: router.OpNotEquals, Description: "User differs", ValueTypes: []string{"string"}},
				{Name: router.OpIn, Description: "User is one of the listed values", ValueTypes: []string{"string[]"}},
				{Name: router.OpNotIn, Description: "User is none of the listed values", ValueTypes: []string{"string[]"}},
			},
		},
	}
}

func (e *UserEvaluator) CanEvaluate(ctx context.Context, item models.ContentItem, rctx router.Context) (bool, error) {
	return rctx.UserID != "" || rctx.UserName != "", nil
}

func (e *UserEvaluator) EvaluateRouting(ctx context.Context, item models.ContentItem, rctx router.Context) ([]router.RoutingDecision, error) {
	if rctx.UserID == "" && rctx.UserName == "" {
		return nil, nil
	}
	return routeByCriteria(ctx, e.store, userField, item.Type.TargetType(), func(value router.ConditionValue) bool {
		return e.matchUser(router.OpIn, rctx, value)
	})
}

func (e *UserEvaluator) CanEvaluateConditionField(field string) bool {
	return field == userField
}

func (e *UserEvaluator) EvaluateCondition(ctx context.Context, cond *router.Condition, item models.ContentItem, rctx router.Context) (bool, error) {
	switch cond.Operator {
	case router.OpEquals, router.OpNotEquals, router.OpIn, router.OpNotIn:
		return e.matchUser(cond.Operator, rctx, cond.Value), nil
	default:
		return false, nil
	}
}

// matchUser accepts either the user's name or ID; structured criteria
// values match by their name.
func (e *UserEvaluator) matchUser(op router.Operator, rctx router.Context, value router.ConditionValue) bool {
	if crit, ok := value.AsCriteria(); ok {
		value = router.StringValue(crit.Name)
	}

	byName := rctx.UserName != "" && matchString(op, rctx.UserName, value, lower)
	byID := rctx.UserID != "" && matchString(op, rctx.UserID, value, identity)

	switch op {
	case router.OpNotEquals, router.OpNotIn:
		// A negated match must hold for every identity the user has.
		if rctx.UserName != "" && !byName {
			return false
		}
		if rctx.UserID != "" && !byID {
			return false
		}
		return rctx.UserName != "" || rctx.UserID != ""
	default:
		return byName || byID
	}
}
