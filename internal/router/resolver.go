package router

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/jamcalli/pulsarr/internal/models"
)

// Resolver turns a content item into an ordered list of routing
// decisions. Two rule styles feed it: condition-tree rules evaluated
// directly against the item, and criteria rules evaluated by whichever
// plugin understands their criteria kind.
//
// Resolution is best-effort and total. A failing store read or plugin
// drops that contribution with a log entry; the remaining decisions are
// still returned. An empty result is the normal outcome for an item no
// rule matches, not an error.
type Resolver struct {
	store    RuleStore
	registry *Registry
	tree     *TreeEvaluator
	log      *slog.Logger
}

// NewResolver builds a resolver over the given store and registry.
func NewResolver(store RuleStore, registry *Registry, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		store:    store,
		registry: registry,
		tree:     NewTreeEvaluator(registry, log),
		log:      log,
	}
}

// Resolve returns every routing decision that applies to the item,
// ordered by descending weight. Ties keep the order decisions were
// gathered in: condition rules first in store order, then plugin
// contributions in priority order.
func (r *Resolver) Resolve(ctx context.Context, item models.ContentItem, rctx Context) ([]RoutingDecision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !item.Type.Valid() {
		r.log.Warn("routing request with unknown content type", "type", item.Type, "title", item.Title)
		return []RoutingDecision{}, nil
	}

	decisions := r.resolveConditionRules(ctx, item, rctx)
	decisions = append(decisions, r.resolvePlugins(ctx, item, rctx)...)

	sort.SliceStable(decisions, func(i, j int) bool {
		return decisions[i].Weight > decisions[j].Weight
	})
	return decisions, nil
}

// resolveConditionRules evaluates every enabled condition-bearing rule
// for the item's target type. A rule carrying both a condition and
// criteria routes by its condition alone; its criteria are ignored.
func (r *Resolver) resolveConditionRules(ctx context.Context, item models.ContentItem, rctx Context) []RoutingDecision {
	target := item.Type.TargetType()
	rules, err := r.store.GetAllEnabledRules(ctx, target)
	if err != nil {
		r.log.Error("loading routing rules failed", "target_type", target, "error", err)
		return nil
	}

	decisions := make([]RoutingDecision, 0, len(rules))
	for _, rule := range rules {
		if !rule.HasCondition() {
			continue
		}

		node, err := DecodeCondition(rule.Condition)
		if err != nil {
			r.log.Warn("skipping rule with undecodable condition",
				"rule_id", rule.ID, "rule_name", rule.Name, "error", err)
			continue
		}
		if !r.tree.Evaluate(ctx, node, item, rctx) {
			continue
		}

		decisions = append(decisions, DecisionFromRule(rule))
	}
	return decisions
}

// resolvePlugins consults every enabled evaluator concurrently. A nil
// decision slice means the evaluator abstained for this request; an
// empty non-nil slice means it applied but matched nothing. Either way
// the evaluator contributes nothing, but abstentions are not counted as
// evaluations in the log.
func (r *Resolver) resolvePlugins(ctx context.Context, item models.ContentItem, rctx Context) []RoutingDecision {
	evaluators := r.registry.EnabledEvaluators()
	if len(evaluators) == 0 {
		return nil
	}

	type contribution struct {
		decisions []RoutingDecision
	}
	results := make([]contribution, len(evaluators))

	var wg sync.WaitGroup
	for i, ev := range evaluators {
		wg.Add(1)
		go func(idx int, ev Evaluator) {
			defer wg.Done()

			ok, err := ev.CanEvaluate(ctx, item, rctx)
			if err != nil {
				r.log.Warn("evaluator applicability check failed",
					"evaluator", ev.Name(), "error", err)
				return
			}
			if !ok {
				return
			}

			decisions, err := ev.EvaluateRouting(ctx, item, rctx)
			if err != nil {
				r.log.Warn("evaluator routing failed",
					"evaluator", ev.Name(), "error", err)
				return
			}
			if decisions == nil {
				r.log.Debug("evaluator abstained", "evaluator", ev.Name())
				return
			}
			results[idx].decisions = decisions
		}(i, ev)
	}
	wg.Wait()

	// Flatten in priority order so weight ties stay deterministic.
	var out []RoutingDecision
	for _, res := range results {
		out = append(out, res.decisions...)
	}
	return out
}

// DecisionFromRule materializes the routing decision a matched rule
// prescribes. Rule order doubles as decision weight.
func DecisionFromRule(rule *models.RouterRule) RoutingDecision {
	return RoutingDecision{
		InstanceID:       rule.TargetInstanceID,
		QualityProfile:   rule.QualityProfile,
		RootFolder:       rule.RootFolder,
		Weight:           rule.Order,
		SearchOnAdd:      rule.SearchOnAdd,
		SeasonMonitoring: rule.SeasonMonitoring,
		RuleID:           rule.ID,
		RuleName:         rule.Name,
	}
}
