package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/repository"
)

// InstanceHandler handles the acquisition-target instance API.
type InstanceHandler struct {
	repo repository.InstanceRepository
}

// NewInstanceHandler creates a new instance handler.
func NewInstanceHandler(repo repository.InstanceRepository) *InstanceHandler {
	return &InstanceHandler{repo: repo}
}

// Register registers the instance routes with the API.
func (h *InstanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listInstances",
		Method:      "GET",
		Path:        "/api/v1/instances",
		Summary:     "List instances",
		Description: "Returns all configured radarr and sonarr instances",
		Tags:        []string{"Instances"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "getInstance",
		Method:      "GET",
		Path:        "/api/v1/instances/{id}",
		Summary:     "Get instance",
		Description: "Returns an instance by ID",
		Tags:        []string{"Instances"},
	}, h.GetByID)

	huma.Register(api, huma.Operation{
		OperationID: "createInstance",
		Method:      "POST",
		Path:        "/api/v1/instances",
		Summary:     "Create instance",
		Description: "Creates a new instance",
		Tags:        []string{"Instances"},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "updateInstance",
		Method:      "PUT",
		Path:        "/api/v1/instances/{id}",
		Summary:     "Update instance",
		Description: "Updates an existing instance",
		Tags:        []string{"Instances"},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID: "deleteInstance",
		Method:      "DELETE",
		Path:        "/api/v1/instances/{id}",
		Summary:     "Delete instance",
		Description: "Deletes an instance",
		Tags:        []string{"Instances"},
	}, h.Delete)
}

// InstanceResponse represents an instance in API responses. The API key
// is never echoed back.
type InstanceResponse struct {
	ID             string `json:"id" doc:"Instance ID (ULID)"`
	Name           string `json:"name" doc:"Instance name"`
	Type           string `json:"type" doc:"Instance kind (radarr or sonarr)"`
	BaseURL        string `json:"base_url" doc:"Instance base URL"`
	QualityProfile string `json:"quality_profile,omitempty" doc:"Default quality profile"`
	RootFolder     string `json:"root_folder,omitempty" doc:"Default root folder"`
	Enabled        bool   `json:"enabled" doc:"Whether the instance accepts routed content"`
	CreatedAt      string `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt      string `json:"updated_at" doc:"Last update timestamp"`
}

// InstanceFromModel converts a models.Instance to InstanceResponse.
func InstanceFromModel(i *models.Instance) InstanceResponse {
	return InstanceResponse{
		ID:             i.ID.String(),
		Name:           i.Name,
		Type:           string(i.Type),
		BaseURL:        i.BaseURL,
		QualityProfile: i.QualityProfile,
		RootFolder:     i.RootFolder,
		Enabled:        models.BoolVal(i.Enabled),
		CreatedAt:      i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      i.UpdatedAt.Format(time.RFC3339),
	}
}

// ListInstancesInput is the input for listing instances.
type ListInstancesInput struct {
	Type string `query:"type" doc:"Filter by instance kind (radarr or sonarr)" required:"false" enum:"radarr,sonarr,"`
}

// ListInstancesOutput is the output for listing instances.
type ListInstancesOutput struct {
	Body struct {
		Instances []InstanceResponse `json:"instances"`
		Count     int                `json:"count"`
	}
}

// List returns all instances.
func (h *InstanceHandler) List(ctx context.Context, input *ListInstancesInput) (*ListInstancesOutput, error) {
	var instances []*models.Instance
	var err error

	if input.Type != "" {
		instances, err = h.repo.GetByType(ctx, models.TargetType(input.Type))
	} else {
		instances, err = h.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list instances", err)
	}

	resp := &ListInstancesOutput{}
	resp.Body.Instances = make([]InstanceResponse, 0, len(instances))
	for _, instance := range instances {
		resp.Body.Instances = append(resp.Body.Instances, InstanceFromModel(instance))
	}
	resp.Body.Count = len(resp.Body.Instances)

	return resp, nil
}

// GetInstanceInput is the input for getting an instance.
type GetInstanceInput struct {
	ID string `path:"id" doc:"Instance ID (ULID)"`
}

// GetInstanceOutput is the output for getting an instance.
type GetInstanceOutput struct {
	Body InstanceResponse
}

// GetByID returns an instance by ID.
func (h *InstanceHandler) GetByID(ctx context.Context, input *GetInstanceInput) (*GetInstanceOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	instance, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get instance", err)
	}
	if instance == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("instance %s not found", input.ID))
	}

	return &GetInstanceOutput{Body: InstanceFromModel(instance)}, nil
}

// CreateInstanceRequest is the request body for creating an instance.
type CreateInstanceRequest struct {
	Name           string `json:"name" doc:"Instance name" minLength:"1" maxLength:"255"`
	Type           string `json:"type" doc:"Instance kind" enum:"radarr,sonarr"`
	BaseURL        string `json:"base_url" doc:"Instance base URL" minLength:"1"`
	APIKey         string `json:"api_key,omitempty" doc:"Instance API key"`
	QualityProfile string `json:"quality_profile,omitempty" doc:"Default quality profile"`
	RootFolder     string `json:"root_folder,omitempty" doc:"Default root folder"`
	Enabled        *bool  `json:"enabled,omitempty" doc:"Whether the instance accepts routed content (default true)"`
}

// CreateInstanceInput is the input for creating an instance.
type CreateInstanceInput struct {
	Body CreateInstanceRequest
}

// CreateInstanceOutput is the output for creating an instance.
type CreateInstanceOutput struct {
	Body InstanceResponse
}

// Create creates a new instance.
func (h *InstanceHandler) Create(ctx context.Context, input *CreateInstanceInput) (*CreateInstanceOutput, error) {
	instance := &models.Instance{
		Name:           input.Body.Name,
		Type:           models.TargetType(input.Body.Type),
		BaseURL:        input.Body.BaseURL,
		APIKey:         input.Body.APIKey,
		QualityProfile: input.Body.QualityProfile,
		RootFolder:     input.Body.RootFolder,
		Enabled:        input.Body.Enabled,
	}

	if err := instance.Validate(); err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid instance", err)
	}

	if err := h.repo.Create(ctx, instance); err != nil {
		return nil, huma.Error500InternalServerError("failed to create instance", err)
	}

	return &CreateInstanceOutput{Body: InstanceFromModel(instance)}, nil
}

// UpdateInstanceRequest is the request body for updating an instance.
type UpdateInstanceRequest struct {
	Name           *string `json:"name,omitempty" doc:"Instance name" maxLength:"255"`
	Type           *string `json:"type,omitempty" doc:"Instance kind" enum:"radarr,sonarr,"`
	BaseURL        *string `json:"base_url,omitempty" doc:"Instance base URL"`
	APIKey         *string `json:"api_key,omitempty" doc:"Instance API key"`
	QualityProfile *string `json:"quality_profile,omitempty" doc:"Default quality profile"`
	RootFolder     *string `json:"root_folder,omitempty" doc:"Default root folder"`
	Enabled        *bool   `json:"enabled,omitempty" doc:"Whether the instance accepts routed content"`
}

// UpdateInstanceInput is the input for updating an instance.
type UpdateInstanceInput struct {
	ID   string `path:"id" doc:"Instance ID (ULID)"`
	Body UpdateInstanceRequest
}

// UpdateInstanceOutput is the output for updating an instance.
type UpdateInstanceOutput struct {
	Body InstanceResponse
}

// Update updates an existing instance.
func (h *InstanceHandler) Update(ctx context.Context, input *UpdateInstanceInput) (*UpdateInstanceOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	instance, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get instance", err)
	}
	if instance == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("instance %s not found", input.ID))
	}

	if input.Body.Name != nil {
		instance.Name = *input.Body.Name
	}
	if input.Body.Type != nil {
		instance.Type = models.TargetType(*input.Body.Type)
	}
	if input.Body.BaseURL != nil {
		instance.BaseURL = *input.Body.BaseURL
	}
	if input.Body.APIKey != nil {
		instance.APIKey = *input.Body.APIKey
	}
	if input.Body.QualityProfile != nil {
		instance.QualityProfile = *input.Body.QualityProfile
	}
	if input.Body.RootFolder != nil {
		instance.RootFolder = *input.Body.RootFolder
	}
	if input.Body.Enabled != nil {
		instance.Enabled = input.Body.Enabled
	}

	if err := instance.Validate(); err != nil {
		return nil, huma.Error422UnprocessableEntity("invalid instance", err)
	}

	if err := h.repo.Update(ctx, instance); err != nil {
		if err == models.ErrInstanceNotFound {
			return nil, huma.Error404NotFound(fmt.Sprintf("instance %s not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to update instance", err)
	}

	return &UpdateInstanceOutput{Body: InstanceFromModel(instance)}, nil
}

// DeleteInstanceInput is the input for deleting an instance.
type DeleteInstanceInput struct {
	ID string `path:"id" doc:"Instance ID (ULID)"`
}

// DeleteInstanceOutput is the output for deleting an instance.
type DeleteInstanceOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

// Delete deletes an instance.
func (h *InstanceHandler) Delete(ctx context.Context, input *DeleteInstanceInput) (*DeleteInstanceOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if err == models.ErrInstanceNotFound {
			return nil, huma.Error404NotFound(fmt.Sprintf("instance %s not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("failed to delete instance", err)
	}

	resp := &DeleteInstanceOutput{}
	resp.Body.Message = fmt.Sprintf("instance %s deleted", input.ID)
	return resp, nil
}
