package evaluators

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/router"
)

const languageField = "language"

// LanguageEvaluator routes by the item's original language. Languages
// are canonicalized through BCP 47 before comparing, so "en", "eng" and
// "English" all refer to the same language.
type LanguageEvaluator struct {
	store router.RuleStore
}

func NewLanguageEvaluator(store router.RuleStore) *LanguageEvaluator {
	return &LanguageEvaluator{store: store}
}

func (e *LanguageEvaluator) Name() string { return "language" }

func (e *LanguageEvaluator) Description() string {
	return "Routes content based on its original language"
}

func (e *LanguageEvaluator) Priority() int { return 60 }

func (e *LanguageEvaluator) Enabled() bool { return true }

func (e *LanguageEvaluator) Metadata() router.EvaluatorMetadata {
	return router.EvaluatorMetadata{
		Name:        e.Name(),
		Description: e.Description(),
		Priority:    e.Priority(),
		Fields: []router.FieldInfo{
			{
				Name:        languageField,
				Description: "Original language, as a BCP 47 tag or English name",
				ValueTypes:  []string{"string", "string[]"},
			},
		},
		FieldOperators: map[string][]router.OperatorInfo{
			languageField: {
				{Name: router.OpEquals, Description: "Language matches", ValueTypes: []string{"string"}},
				{Name: router.OpNotEquals, Description: "Language differs", ValueTypes: []string{"string"}},
				{Name: router.OpIn, Description: "Language is one of the listed values", ValueTypes: []string{"string[]"}},
				{Name: router.OpNotIn, Description: "Language is none of the listed values", ValueTypes: []string{"string[]"}},
			},
		},
	}
}

func (e *LanguageEvaluator) CanEvaluate(ctx context.Context, item models.ContentItem, rctx router.Context) (bool, error) {
	return item.Language != "", nil
}

func (e *LanguageEvaluator) EvaluateRouting(ctx context.Context, item models.ContentItem, rctx router.Context) ([]router.RoutingDecision, error) {
	if item.Language == "" {
		return nil, nil
	}
	return routeByCriteria(ctx, e.store, languageField, item.Type.TargetType(), func(value router.ConditionValue) bool {
		return matchString(router.OpIn, item.Language, value, canonicalLanguage)
	})
}

func (e *LanguageEvaluator) CanEvaluateConditionField(field string) bool {
	return field == languageField
}

func (e *LanguageEvaluator) EvaluateCondition(ctx context.Context, cond *router.Condition, item models.ContentItem, rctx router.Context) (bool, error) {
	switch cond.Operator {
	case router.OpEquals, router.OpNotEquals, router.OpIn, router.OpNotIn:
		return matchString(cond.Operator, item.Language, cond.Value, canonicalLanguage), nil
	default:
		return false, nil
	}
}

// englishNames maps lowercased English language names back to their
// base tag, built lazily from the display package's English namer.
var englishNames = buildEnglishNames()

func buildEnglishNames() map[string]string {
	namer := display.English.Languages()
	names := make(map[string]string, len(display.Supported.Tags()))
	for _, tag := range display.Supported.Tags() {
		base, conf := tag.Base()
		if conf == language.No {
			continue
		}
		if name := namer.Name(tag); name != "" {
			names[lower(name)] = base.String()
		}
	}
	return names
}

// canonicalLanguage reduces a language reference to its base BCP 47
// subtag. English display names ("French") and tags in any casing or
// variant ("fr-CA") collapse to the same key; unrecognized input is
// compared verbatim in lowercase.
func canonicalLanguage(s string) string {
	s = lower(s)
	if s == "" {
		return s
	}
	if base, ok := englishNames[s]; ok {
		return base
	}
	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	base, conf := tag.Base()
	if conf == language.No {
		return s
	}
	return base.String()
}
