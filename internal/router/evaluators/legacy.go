package evaluators

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/router"
)

// routeByCriteria implements the flat-rule routing path shared by every
// evaluator: load the rules carrying this criteria kind, decode each
// rule's criterion value, and emit a decision for every rule whose
// criterion the item satisfies.
//
// Rules that also carry a condition tree are skipped here; the resolver
// routes those by their condition alone. Rules for a different target
// type are skipped too, since the kind index aggregates radarr and
// sonarr rules.
func routeByCriteria(ctx context.Context, store router.RuleStore, kind string, target models.TargetType, match func(value router.ConditionValue) bool) ([]router.RoutingDecision, error) {
	rules, err := store.GetRulesByType(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("loading %s rules: %w", kind, err)
	}

	decisions := make([]router.RoutingDecision, 0, len(rules))
	for _, rule := range rules {
		if rule.HasCondition() {
			continue
		}
		if rule.TargetType != target {
			continue
		}

		raw, ok := rule.CriteriaMap()[kind]
		if !ok {
			continue
		}
		var value router.ConditionValue
		if err := json.Unmarshal(raw, &value); err != nil || value.IsAbsent() {
			continue
		}
		if !match(value) {
			continue
		}

		decisions = append(decisions, router.DecisionFromRule(rule))
	}
	return decisions, nil
}
