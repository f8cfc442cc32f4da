package router

import (
	"context"

	"github.com/jamcalli/pulsarr/internal/models"
)

// RoutingDecision is one proposed placement for a content item. A rule
// that matches yields exactly one decision; the resolver collects
// decisions from every matching rule and orders them by weight.
type RoutingDecision struct {
	InstanceID       models.ULID `json:"instance_id"`
	QualityProfile   string      `json:"quality_profile,omitempty"`
	RootFolder       string      `json:"root_folder,omitempty"`
	Weight           int         `json:"weight"`
	SearchOnAdd      *bool       `json:"search_on_add,omitempty"`
	SeasonMonitoring string      `json:"season_monitoring,omitempty"`
	RuleID           models.ULID `json:"rule_id,omitempty"`
	RuleName         string      `json:"rule_name,omitempty"`
}

// Context carries request-scoped facts that evaluators may consult in
// addition to the content item itself.
type Context struct {
	ContentType models.ContentType
	UserID      string
	UserName    string
	RequestID   string
	Attributes  map[string]string
}

// FieldInfo documents one condition field an evaluator understands.
type FieldInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ValueTypes  []string `json:"value_types"`
}

// OperatorInfo documents one operator supported for a field.
type OperatorInfo struct {
	Name        Operator `json:"name"`
	Description string   `json:"description"`
	ValueTypes  []string `json:"value_types"`
	ValueFormat string   `json:"value_format,omitempty"`
}

// EvaluatorMetadata is the self-description an evaluator exposes for
// the authoring API.
type EvaluatorMetadata struct {
	Name           string                    `json:"name"`
	Description    string                    `json:"description"`
	Priority       int                       `json:"priority"`
	Fields         []FieldInfo               `json:"fields"`
	FieldOperators map[string][]OperatorInfo `json:"field_operators"`
}

// Evaluator is a pluggable routing strategy. An evaluator participates
// in two paths: criteria-based routing (EvaluateRouting, consulted once
// per request) and condition-tree leaves (EvaluateCondition, consulted
// per leaf whose field it owns).
//
// EvaluateRouting distinguishes abstention from no-match by the nil-ness
// of the returned slice: nil means the evaluator did not apply to this
// request at all, a non-nil empty slice means it applied and matched
// nothing.
type Evaluator interface {
	Name() string
	Description() string
	Priority() int
	Enabled() bool
	Metadata() EvaluatorMetadata

	CanEvaluate(ctx context.Context, item models.ContentItem, rctx Context) (bool, error)
	EvaluateRouting(ctx context.Context, item models.ContentItem, rctx Context) ([]RoutingDecision, error)

	CanEvaluateConditionField(field string) bool
	EvaluateCondition(ctx context.Context, cond *Condition, item models.ContentItem, rctx Context) (bool, error)
}

// RuleStore is the rule access the routing engine needs. The repository
// layer implements it; SnapshotStore wraps it with a cache.
type RuleStore interface {
	GetAllEnabledRules(ctx context.Context, targetType models.TargetType) ([]*models.RouterRule, error)
	GetRulesByType(ctx context.Context, kind string) ([]*models.RouterRule, error)
}
