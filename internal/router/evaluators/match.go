// Package evaluators contains the built-in routing evaluators. Each
// evaluator owns a small set of condition fields and understands one
// criteria kind for rules authored in the flat style.
package evaluators

import (
	"regexp"
	"strings"
	"sync"

	"github.com/jamcalli/pulsarr/internal/router"
)

// matchString compares a single string field against a condition value.
// Comparison is done through norm, which both sides pass through before
// comparing (pass identity for case-sensitive matching). Unsupported
// operators and mismatched value shapes match nothing.
func matchString(op router.Operator, actual string, value router.ConditionValue, norm func(string) string) bool {
	raw := actual
	actual = norm(actual)

	switch op {
	case router.OpEquals, router.OpNotEquals:
		want, ok := value.AsString()
		if !ok {
			return false
		}
		eq := actual == norm(want)
		if op == router.OpNotEquals {
			return !eq
		}
		return eq

	case router.OpContains, router.OpNotContains:
		want, ok := value.AsString()
		if !ok {
			return false
		}
		has := strings.Contains(actual, norm(want))
		if op == router.OpNotContains {
			return !has
		}
		return has

	case router.OpRegex:
		// Patterns match the raw field value, not the normalized form.
		return matchRegex(raw, value)

	case router.OpIn, router.OpNotIn:
		list, ok := value.AsStringList()
		if !ok {
			// A scalar behaves as a single-element list.
			if s, sok := value.AsString(); sok {
				list, ok = []string{s}, true
			}
		}
		if !ok {
			return false
		}
		found := false
		for _, candidate := range list {
			if actual == norm(candidate) {
				found = true
				break
			}
		}
		if op == router.OpNotIn {
			return !found
		}
		return found

	default:
		return false
	}
}

// matchStringList compares a multi-valued field (like genres) against a
// condition value. Positive operators match when any element does;
// their negations match when no element does.
func matchStringList(op router.Operator, actuals []string, value router.ConditionValue, norm func(string) string) bool {
	switch op {
	case router.OpEquals, router.OpContains, router.OpIn, router.OpRegex:
		for _, actual := range actuals {
			if matchString(anyPositive(op), actual, value, norm) {
				return true
			}
		}
		return false
	case router.OpNotEquals, router.OpNotContains, router.OpNotIn:
		for _, actual := range actuals {
			if matchString(anyPositive(op), actual, value, norm) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// regexCache holds compiled patterns keyed by source text. Routing
// evaluates the same few rule patterns for every request, so compile
// each once.
var regexCache sync.Map

func matchRegex(actual string, value router.ConditionValue) bool {
	pattern, ok := value.AsString()
	if !ok {
		return false
	}

	if cached, ok := regexCache.Load(pattern); ok {
		re, valid := cached.(*regexp.Regexp)
		return valid && re.MatchString(actual)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		// Cache the failure so a bad pattern is not recompiled per item.
		regexCache.Store(pattern, err)
		return false
	}
	regexCache.Store(pattern, re)
	return re.MatchString(actual)
}

func anyPositive(op router.Operator) router.Operator {
	switch op {
	case router.OpNotEquals:
		return router.OpEquals
	case router.OpNotContains:
		return router.OpContains
	case router.OpNotIn:
		return router.OpIn
	default:
		return op
	}
}

// matchNumber compares a numeric field against a condition value.
func matchNumber(op router.Operator, actual float64, value router.ConditionValue) bool {
	switch op {
	case router.OpEquals, router.OpNotEquals:
		want, ok := value.AsNumber()
		if !ok {
			return false
		}
		eq := actual == want
		if op == router.OpNotEquals {
			return !eq
		}
		return eq

	case router.OpGreaterThan:
		want, ok := value.AsNumber()
		return ok && actual > want

	case router.OpLessThan:
		want, ok := value.AsNumber()
		return ok && actual < want

	case router.OpBetween:
		rng, ok := value.AsRange()
		return ok && rng.Contains(actual)

	case router.OpIn, router.OpNotIn:
		list, ok := value.AsNumberList()
		if !ok {
			if n, nok := value.AsNumber(); nok {
				list, ok = []float64{n}, true
			}
		}
		if !ok {
			return false
		}
		found := false
		for _, candidate := range list {
			if actual == candidate {
				found = true
				break
			}
		}
		if op == router.OpNotIn {
			return !found
		}
		return found

	default:
		return false
	}
}

func identity(s string) string { return s }

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
