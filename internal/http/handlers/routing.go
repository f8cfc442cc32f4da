package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/observability"
	"github.com/jamcalli/pulsarr/internal/router"
)

// RoutingHandler exposes the routing preview endpoint: resolve a
// content item against the stored rules without touching any instance.
type RoutingHandler struct {
	resolver *router.Resolver
}

// NewRoutingHandler creates a new routing handler.
func NewRoutingHandler(resolver *router.Resolver) *RoutingHandler {
	return &RoutingHandler{resolver: resolver}
}

// Register registers the routing routes with the API.
func (h *RoutingHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "previewRouting",
		Method:      "POST",
		Path:        "/api/v1/router/preview",
		Summary:     "Preview routing",
		Description: "Resolves a content item against the routing rules and returns every matching decision, best first",
		Tags:        []string{"Router"},
	}, h.Preview)
}

// RoutingContentItem is the content item shape accepted by the preview
// endpoint.
type RoutingContentItem struct {
	Title         string            `json:"title" doc:"Content title" minLength:"1"`
	Type          string            `json:"type" doc:"Content kind" enum:"movie,show"`
	Genres        []string          `json:"genres,omitempty" doc:"Content genres"`
	Certification string            `json:"certification,omitempty" doc:"Certification rating"`
	Language      string            `json:"language,omitempty" doc:"Original language"`
	Year          int               `json:"year,omitempty" doc:"Release year"`
	Metadata      map[string]string `json:"metadata,omitempty" doc:"Additional metadata"`
}

// PreviewRoutingInput is the input for the routing preview.
type PreviewRoutingInput struct {
	Body struct {
		Item     RoutingContentItem `json:"item" doc:"Content item to route"`
		UserID   string             `json:"user_id,omitempty" doc:"Requesting user ID"`
		UserName string             `json:"user_name,omitempty" doc:"Requesting user name"`
	}
}

// RoutingDecisionResponse is one routing decision in the preview output.
type RoutingDecisionResponse struct {
	InstanceID       string `json:"instance_id" doc:"Instance the item would route to"`
	QualityProfile   string `json:"quality_profile,omitempty" doc:"Quality profile override"`
	RootFolder       string `json:"root_folder,omitempty" doc:"Root folder override"`
	Weight           int    `json:"weight" doc:"Decision weight; higher wins"`
	SearchOnAdd      *bool  `json:"search_on_add,omitempty" doc:"Trigger a search when the item is added"`
	SeasonMonitoring string `json:"season_monitoring,omitempty" doc:"Season monitoring mode"`
	RuleID           string `json:"rule_id,omitempty" doc:"Rule that produced the decision"`
	RuleName         string `json:"rule_name,omitempty" doc:"Name of that rule"`
}

// PreviewRoutingOutput is the output for the routing preview.
type PreviewRoutingOutput struct {
	Body struct {
		Decisions []RoutingDecisionResponse `json:"decisions"`
		Count     int                       `json:"count"`
	}
}

// Preview resolves the item and returns the matching decisions.
func (h *RoutingHandler) Preview(ctx context.Context, input *PreviewRoutingInput) (*PreviewRoutingOutput, error) {
	item := models.ContentItem{
		Title:         input.Body.Item.Title,
		Type:          models.ContentType(input.Body.Item.Type),
		Genres:        input.Body.Item.Genres,
		Certification: input.Body.Item.Certification,
		Language:      input.Body.Item.Language,
		Year:          input.Body.Item.Year,
		Metadata:      input.Body.Item.Metadata,
	}

	rctx := router.Context{
		ContentType: item.Type,
		UserID:      input.Body.UserID,
		UserName:    input.Body.UserName,
		RequestID:   observability.RequestIDFromContext(ctx),
	}

	decisions, err := h.resolver.Resolve(ctx, item, rctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to resolve routing", err)
	}

	resp := &PreviewRoutingOutput{}
	resp.Body.Decisions = make([]RoutingDecisionResponse, 0, len(decisions))
	for _, d := range decisions {
		resp.Body.Decisions = append(resp.Body.Decisions, RoutingDecisionResponse{
			InstanceID:       d.InstanceID.String(),
			QualityProfile:   d.QualityProfile,
			RootFolder:       d.RootFolder,
			Weight:           d.Weight,
			SearchOnAdd:      d.SearchOnAdd,
			SeasonMonitoring: d.SeasonMonitoring,
			RuleID:           d.RuleID.String(),
			RuleName:         d.RuleName,
		})
	}
	resp.Body.Count = len(resp.Body.Decisions)

	return resp, nil
}
