package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/repository"
	"github.com/jamcalli/pulsarr/internal/router"
)

// RouterRuleHandler handles the router rule authoring API.
type RouterRuleHandler struct {
	repo repository.RouterRuleRepository
}

// NewRouterRuleHandler creates a new router rule handler.
func NewRouterRuleHandler(repo repository.RouterRuleRepository) *RouterRuleHandler {
	return &RouterRuleHandler{repo: repo}
}

// Register registers the router rule routes with the API.
func (h *RouterRuleHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listRouterRules",
		Method:      "GET",
		Path:        "/api/v1/router/rules",
		Summary:     "List router rules",
		Description: "Returns all router rules ordered by weight",
		Tags:        []string{"Router Rules"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "getRouterRule",
		Method:      "GET",
		Path:        "/api/v1/router/rules/{id}",
		Summary:     "Get router rule",
		Description: "Returns a router rule by ID",
		Tags:        []string{"Router Rules"},
	}, h.GetByID)

	huma.Register(api, huma.Operation{
		OperationID: "createRouterRule",
		Method:      "POST",
		Path:        "/api/v1/router/rules",
		Summary:     "Create router rule",
		Description: "Creates a new router rule",
		Tags:        []string{"Router Rules"},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "updateRouterRule",
		Method:      "PUT",
		Path:        "/api/v1/router/rules/{id}",
		Summary:     "Update router rule",
		Description: "Updates an existing router rule",
		Tags:        []string{"Router Rules"},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID: "deleteRouterRule",
		Method:      "DELETE",
		Path:        "/api/v1/router/rules/{id}",
		Summary:     "Delete router rule",
		Description: "Deletes a router rule",
		Tags:        []string{"Router Rules"},
	}, h.Delete)
}

// RouterRuleResponse represents a router rule in API responses.
type RouterRuleResponse struct {
	ID               string          `json:"id" doc:"Rule ID (ULID)"`
	Name             string          `json:"name" doc:"Rule name"`
	TargetType       string          `json:"target_type" doc:"Acquisition target kind (radarr or sonarr)"`
	TargetInstanceID string          `json:"target_instance_id" doc:"Instance the rule routes to"`
	Condition        json.RawMessage `json:"condition,omitempty" doc:"Condition tree"`
	Criteria         json.RawMessage `json:"criteria,omitempty" doc:"Flat criteria map"`
	RootFolder       string          `json:"root_folder,omitempty" doc:"Root folder override"`
	QualityProfile   string          `json:"quality_profile,omitempty" doc:"Quality profile override"`
	Order            int             `json:"order" doc:"Rule weight; higher wins"`
	Enabled          bool            `json:"enabled" doc:"Whether the rule is evaluated"`
	SearchOnAdd      *bool           `json:"search_on_add,omitempty" doc:"Trigger a search when the item is added"`
	SeasonMonitoring string          `json:"season_monitoring,omitempty" doc:"Season monitoring mode (sonarr)"`
	CreatedAt        string          `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt        string          `json:"updated_at" doc:"Last update timestamp"`
}

// RouterRuleFromModel converts a models.RouterRule to RouterRuleResponse.
func RouterRuleFromModel(r *models.RouterRule) RouterRuleResponse {
	return RouterRuleResponse{
		ID:               r.ID.String(),
		Name:             r.Name,
		TargetType:       string(r.TargetType),
		TargetInstanceID: r.TargetInstanceID.String(),
		Condition:        r.Condition,
		Criteria:         r.Criteria,
		RootFolder:       r.RootFolder,
		QualityProfile:   r.QualityProfile,
		Order:            r.Order,
		Enabled:          r.IsEnabled(),
		SearchOnAdd:      r.SearchOnAdd,
		SeasonMonitoring: r.SeasonMonitoring,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        r.UpdatedAt.Format(time.RFC3339),
	}
}

// ListRouterRulesInput is the input for listing router rules.
type ListRouterRulesInput struct {
	TargetType string `query:"target_type" doc:"Filter by target kind (radarr or sonarr)" required:"false" enum:"radarr,sonarr,"`
	Enabled    string `query:"enabled" doc:"Filter by enabled status (true or false)" required:"false" enum:"true,false,"`
}

// ListRouterRulesOutput is the output for listing router rules.
type ListRouterRulesOutput struct {
	Body struct {
		Rules []RouterRuleResponse `json:"rules"`
		Count int                  `json:"count"`
	}
}

// List returns all router rules.
func (h *RouterRuleHandler) List(ctx context.Context, input *ListRouterRulesInput) (*ListRouterRulesOutput, error) {
	var rules []*models.RouterRule
	var err error

	if input.Enabled == "true" && input.TargetType != "" {
		rules, err = h.repo.GetAllEnabledRules(ctx, models.TargetType(input.TargetType))
	} else {
		rules, err = h.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list router rules", err)
	}

	resp := &ListRouterRulesOutput{}
	resp.Body.Rules = make([]RouterRuleResponse, 0, len(rules))
	for _, rule := range rules {
		if input.TargetType != "" && string(rule.TargetType) != input.TargetType {
			continue
		}
		if input.Enabled == "true" && !rule.IsEnabled() {
			continue
		}
		if input.Enabled == "false" && rule.IsEnabled() {
			continue
		}
		resp.Body.Rules = append(resp.Body.Rules, RouterRuleFromModel(rule))
	}
	resp.Body.Count = len(resp.Body.Rules)

	return resp, nil
}

// GetRouterRuleInput is the input for getting a router rule.
type GetRouterRuleInput struct {
	ID string `path:"id" doc:"Rule ID (ULID)"`
}

// GetRouterRuleOutput is the output for getting a router rule.
type GetRouterRuleOutput struct {
	Body RouterRuleResponse
}

// GetByID returns a router rule by ID.
func (h *RouterRuleHandler) GetByID(ctx context.Context, input *GetRouterRuleInput) (*GetRouterRuleOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	rule, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get router rule", err)
	}
	if rule == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("router rule %s not found", input.ID))
	}

	return &GetRouterRuleOutput{Body: RouterRuleFromModel(rule)}, nil
}

// CreateRouterRuleRequest is the request body for creating a router rule.
type CreateRouterRuleRequest struct {
	Name             string          `json:"name" doc:"Rule name" minLength:"1" maxLength:"255"`
	TargetType       string          `json:"target_type" doc:"Acquisition target kind" enum:"radarr,sonarr"`
	TargetInstanceID string          `json:"target_instance_id" doc:"Instance the rule routes to (ULID)"`
	Condition        json.RawMessage `json:"condition,omitempty" doc:"Condition tree"`
	Criteria         json.RawMessage `json:"criteria,omitempty" doc:"Flat criteria map"`
	RootFolder       string          `json:"root_folder,omitempty" doc:"Root folder override"`
	QualityProfile   string          `json:"quality_profile,omitempty" doc:"Quality profile override"`
	Order            int             `json:"order,omitempty" doc:"Rule weight; higher wins"`
	Enabled          *bool           `json:"enabled,omitempty" doc:"Whether the rule is evaluated (default true)"`
	SearchOnAdd      *bool           `json:"search_on_add,omitempty" doc:"Trigger a search when the item is added"`
	SeasonMonitoring string          `json:"season_monitoring,omitempty" doc:"Season monitoring mode (sonarr)"`
}

// CreateRouterRuleInput is the input for creating a router rule.
type CreateRouterRuleInput struct {
	Body CreateRouterRuleRequest
}

// CreateRouterRuleOutput is the output for creating a router rule.
type CreateRouterRuleOutput struct {
	Body RouterRuleResponse
}

// Create creates a new router rule.
func (h *RouterRuleHandler) Create(ctx context.Context, input *CreateRouterRuleInput) (*CreateRouterRuleOutput, error) {
	instanceID, err := models.ParseULID(input.Body.TargetInstanceID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid target_instance_id format", err)
	}

	rule := &models.RouterRule{
		Name:             input.Body.Name,
		TargetType:       models.TargetType(input.Body.TargetType),
		TargetInstanceID: instanceID,
		Condition:        input.Body.Condition,
		Criteria:         input.Body.Criteria,
		RootFolder:       input.Body.RootFolder,
		QualityProfile:   input.Body.QualityProfile,
		Order:            input.Body.Order,
		Enabled:          input.Body.Enabled,
		SearchOnAdd:      input.Body.SearchOnAdd,
		SeasonMonitoring: input.Body.SeasonMonitoring,
	}

	if err := validateRuleCondition(rule); err != nil {
		return nil, err
	}

	if err := rule.Validate(); err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid router rule", err)
	}

	if err := h.repo.Create(ctx, rule); err != nil {
		return nil, huma.Error500InternalServerError("failed to create router rule", err)
	}

	return &CreateRouterRuleOutput{Body: RouterRuleFromModel(rule)}, nil
}

// UpdateRouterRuleRequest is the request body for updating a router rule.
type UpdateRouterRuleRequest struct {
	Name             *string         `json:"name,omitempty" doc:"Rule name" maxLength:"255"`
	TargetType       *string         `json:"target_type,omitempty" doc:"Acquisition target kind" enum:"radarr,sonarr,"`
	TargetInstanceID *string         `json:"target_instance_id,omitempty" doc:"Instance the rule routes to (ULID)"`
	Condition        json.RawMessage `json:"condition,omitempty" doc:"Condition tree (null to clear)"`
	Criteria         json.RawMessage `json:"criteria,omitempty" doc:"Flat criteria map (null to clear)"`
	RootFolder       *string         `json:"root_folder,omitempty" doc:"Root folder override"`
	QualityProfile   *string         `json:"quality_profile,omitempty" doc:"Quality profile override"`
	Order            *int            `json:"order,omitempty" doc:"Rule weight; higher wins"`
	Enabled          *bool           `json:"enabled,omitempty" doc:"Whether the rule is evaluated"`
	SearchOnAdd      *bool           `json:"search_on_add,omitempty" doc:"Trigger a search when the item is added"`
	SeasonMonitoring *string         `json:"season_monitoring,omitempty" doc:"Season monitoring mode (sonarr)"`
}

// UpdateRouterRuleInput is the input for updating a router rule.
type UpdateRouterRuleInput struct {
	ID   string `path:"id" doc:"Rule ID (ULID)"`
	Body UpdateRouterRuleRequest
}

// UpdateRouterRuleOutput is the output for updating a router rule.
type UpdateRouterRuleOutput struct {
	Body RouterRuleResponse
}

// Update updates an existing router rule.
func (h *RouterRuleHandler) Update(ctx context.Context, input *UpdateRouterRuleInput) (*UpdateRouterRuleOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	rule, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get router rule", err)
	}
	if rule == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("router rule %s not found", input.ID))
	}

	if input.Body.Name != nil {
		rule.Name = *input.Body.Name
	}
	if input.Body.TargetType != nil {
		rule.TargetType = models.TargetType(*input.Body.TargetType)
	}
	if input.Body.TargetInstanceID != nil {
		instanceID, err := models.ParseULID(*input.Body.TargetInstanceID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid target_instance_id format", err)
		}
		rule.TargetInstanceID = instanceID
	}
	if input.Body.Condition != nil {
		rule.Condition = input.Body.Condition
	}
	if input.Body.Criteria != nil {
		rule.Criteria = input.Body.Criteria
	}
	if input.Body.RootFolder != nil {
		rule.RootFolder = *input.Body.RootFolder
	}
	if input.Body.QualityProfile != nil {
		rule.QualityProfile = *input.Body.QualityProfile
	}
	if input.Body.Order != nil {
		rule.Order = *input.Body.Order
	}
	if input.Body.Enabled != nil {
		rule.Enabled = input.Body.Enabled
	}
	if input.Body.SearchOnAdd != nil {
		rule.SearchOnAdd = input.Body.SearchOnAdd
	}
	if input.Body.SeasonMonitoring != nil {
		rule.SeasonMonitoring = *input.Body.SeasonMonitoring
	}

	if err := validateRuleCondition(rule); err != nil {
		return nil, err
	}

	if err := rule.Validate(); err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid router rule", err)
	}

	if err := h.repo.Update(ctx, rule); err != nil {
		if err == models.ErrRuleNotFound {
			return nil, huma.Error404NotFound(fmt.Sprintf("router rule %s not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to update router rule", err)
	}

	return &UpdateRouterRuleOutput{Body: RouterRuleFromModel(rule)}, nil
}

// DeleteRouterRuleInput is the input for deleting a router rule.
type DeleteRouterRuleInput struct {
	ID string `path:"id" doc:"Rule ID (ULID)"`
}

// DeleteRouterRuleOutput is the output for deleting a router rule.
type DeleteRouterRuleOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

// Delete deletes a router rule.
func (h *RouterRuleHandler) Delete(ctx context.Context, input *DeleteRouterRuleInput) (*DeleteRouterRuleOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if err == models.ErrRuleNotFound {
			return nil, huma.Error404NotFound(fmt.Sprintf("router rule %s not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to delete router rule", err)
	}

	resp := &DeleteRouterRuleOutput{}
	resp.Body.Message = fmt.Sprintf("router rule %s deleted", input.ID)
	return resp, nil
}

// validateRuleCondition runs authoring validation over a rule's stored
// condition tree, if it has one. Stored rules that fail this check still
// evaluate; new and updated ones are rejected up front.
func validateRuleCondition(rule *models.RouterRule) error {
	if !rule.HasCondition() {
		return nil
	}

	node, err := router.DecodeCondition(rule.Condition)
	if err != nil {
		return huma.Error422UnprocessableEntity("invalid condition tree", err)
	}
	if err := router.ValidateAuthoring(node); err != nil {
		return huma.Error422UnprocessableEntity("invalid condition tree", err)
	}
	return nil
}
