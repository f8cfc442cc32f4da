package handlers

import (
	"context"
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jamcalli/pulsarr/internal/router"
)

// EvaluatorHandler exposes evaluator metadata and condition validation
// for the rule authoring UI.
type EvaluatorHandler struct {
	registry *router.Registry
}

// NewEvaluatorHandler creates a new evaluator handler.
func NewEvaluatorHandler(registry *router.Registry) *EvaluatorHandler {
	return &EvaluatorHandler{registry: registry}
}

// Register registers the evaluator routes with the API.
func (h *EvaluatorHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listEvaluators",
		Method:      "GET",
		Path:        "/api/v1/router/evaluators",
		Summary:     "List evaluators",
		Description: "Returns metadata for every enabled routing evaluator: supported fields and operators",
		Tags:        []string{"Router"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "validateCondition",
		Method:      "POST",
		Path:        "/api/v1/router/conditions/validate",
		Summary:     "Validate condition",
		Description: "Validates a condition tree without saving it",
		Tags:        []string{"Router"},
	}, h.ValidateCondition)
}

// ListEvaluatorsInput is the input for listing evaluators.
type ListEvaluatorsInput struct{}

// ListEvaluatorsOutput is the output for listing evaluators.
type ListEvaluatorsOutput struct {
	Body struct {
		Evaluators []router.EvaluatorMetadata `json:"evaluators"`
		Count      int                        `json:"count"`
		// Operators is the full comparison-operator vocabulary.
		// Per-field support is narrower; see each evaluator's
		// field_operators.
		Operators []router.Operator `json:"operators"`
	}
}

// List returns metadata for the enabled evaluators in priority order.
func (h *EvaluatorHandler) List(ctx context.Context, input *ListEvaluatorsInput) (*ListEvaluatorsOutput, error) {
	resp := &ListEvaluatorsOutput{}
	resp.Body.Evaluators = h.registry.Metadata()
	resp.Body.Count = len(resp.Body.Evaluators)
	resp.Body.Operators = router.Operators()
	return resp, nil
}

// ValidateConditionInput is the input for validating a condition tree.
type ValidateConditionInput struct {
	Body struct {
		Condition json.RawMessage `json:"condition" doc:"Condition tree to validate"`
	}
}

// ValidateConditionOutput is the output for validating a condition tree.
type ValidateConditionOutput struct {
	Body struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors,omitempty"`
		// UnknownFields lists condition fields no evaluator claims.
		// They are legal but always evaluate to false.
		UnknownFields []string `json:"unknown_fields,omitempty"`
	}
}

// ValidateCondition validates a condition tree without saving it.
func (h *EvaluatorHandler) ValidateCondition(ctx context.Context, input *ValidateConditionInput) (*ValidateConditionOutput, error) {
	resp := &ValidateConditionOutput{}

	node, err := router.DecodeCondition(input.Body.Condition)
	if err != nil {
		resp.Body.Errors = append(resp.Body.Errors, err.Error())
		return resp, nil
	}

	if err := router.ValidateAuthoring(node); err != nil {
		resp.Body.Errors = append(resp.Body.Errors, err.Error())
		return resp, nil
	}

	resp.Body.Valid = true
	resp.Body.UnknownFields = h.unknownFields(node)
	return resp, nil
}

// unknownFields walks the tree collecting fields without an owner.
func (h *EvaluatorHandler) unknownFields(node router.ConditionNode) []string {
	seen := make(map[string]struct{})
	var unknown []string

	var walk func(router.ConditionNode)
	walk = func(n router.ConditionNode) {
		switch n := n.(type) {
		case *router.Condition:
			if _, done := seen[n.Field]; done {
				return
			}
			seen[n.Field] = struct{}{}
			if h.registry.OwnerOf(n.Field) == nil {
				unknown = append(unknown, n.Field)
			}
		case *router.ConditionGroup:
			for _, child := range n.Conditions {
				walk(child)
			}
		}
	}
	walk(node)

	return unknown
}
