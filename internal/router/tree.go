package router

import (
	"context"
	"log/slog"

	"github.com/jamcalli/pulsarr/internal/models"
)

// evalDepthBudget is the hard recursion limit during evaluation. Trees
// deeper than MaxConditionDepth never pass validation, so this only
// trips on a tree that bypassed it; such branches evaluate to false.
const evalDepthBudget = 64

// TreeEvaluator evaluates condition trees against a content item by
// dispatching each leaf to the evaluator that owns its field.
//
// Evaluation is total: it never returns an error. Any leaf that cannot
// be evaluated, whether the field is unowned, the operator rejected, or
// the owning evaluator failed, contributes false before negation.
type TreeEvaluator struct {
	registry *Registry
	log      *slog.Logger
}

// NewTreeEvaluator builds a tree evaluator over the given registry.
func NewTreeEvaluator(registry *Registry, log *slog.Logger) *TreeEvaluator {
	if log == nil {
		log = slog.Default()
	}
	return &TreeEvaluator{registry: registry, log: log}
}

// Evaluate returns whether the item satisfies the condition tree. A nil
// tree matches nothing.
func (t *TreeEvaluator) Evaluate(ctx context.Context, node ConditionNode, item models.ContentItem, rctx Context) bool {
	if node == nil {
		return false
	}
	return t.evalNode(ctx, node, item, rctx, 0)
}

func (t *TreeEvaluator) evalNode(ctx context.Context, node ConditionNode, item models.ContentItem, rctx Context, depth int) bool {
	if depth > evalDepthBudget {
		t.log.Warn("condition tree exceeded evaluation depth budget", "depth", depth)
		return false
	}

	switch n := node.(type) {
	case *ConditionGroup:
		return applyNegate(t.evalGroup(ctx, n, item, rctx, depth), n.Negate)
	case *Condition:
		return applyNegate(t.evalLeaf(ctx, n, item, rctx), n.Negate)
	default:
		return false
	}
}

// evalGroup short-circuits: AND stops at the first false child, OR at
// the first true child. An empty AND is vacuously true, an empty OR is
// vacuously false. Negation on the group applies to this result, so a
// negated empty AND is false.
func (t *TreeEvaluator) evalGroup(ctx context.Context, group *ConditionGroup, item models.ContentItem, rctx Context, depth int) bool {
	switch group.Operator {
	case LogicalAnd:
		for _, child := range group.Conditions {
			if !t.evalNode(ctx, child, item, rctx, depth+1) {
				return false
			}
		}
		return true
	case LogicalOr:
		for _, child := range group.Conditions {
			if t.evalNode(ctx, child, item, rctx, depth+1) {
				return true
			}
		}
		return false
	default:
		t.log.Warn("unknown logical operator in condition group", "operator", group.Operator)
		return false
	}
}

func (t *TreeEvaluator) evalLeaf(ctx context.Context, cond *Condition, item models.ContentItem, rctx Context) bool {
	owner := t.registry.OwnerOf(cond.Field)
	if owner == nil {
		t.log.Debug("condition field has no evaluator", "field", cond.Field)
		return false
	}

	matched, err := owner.EvaluateCondition(ctx, cond, item, rctx)
	if err != nil {
		t.log.Warn("condition evaluation failed",
			"field", cond.Field,
			"operator", cond.Operator,
			"evaluator", owner.Name(),
			"error", err)
		return false
	}
	return matched
}

func applyNegate(result, negate bool) bool {
	if negate {
		return !result
	}
	return result
}
