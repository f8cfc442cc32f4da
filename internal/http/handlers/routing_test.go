package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/router"
)

func newTestRoutingHandler(rules ...*models.RouterRule) *RoutingHandler {
	store := &memoryStore{rules: rules}
	registry := newTestRegistry(store)
	return NewRoutingHandler(router.NewResolver(store, registry, nil))
}

func previewRule(name string, order int, condition string) *models.RouterRule {
	return &models.RouterRule{
		BaseModel:        models.BaseModel{ID: models.NewULID()},
		Name:             name,
		TargetType:       models.TargetTypeSonarr,
		TargetInstanceID: models.NewULID(),
		Condition:        json.RawMessage(condition),
		Order:            order,
	}
}

func TestRoutingHandler_Preview(t *testing.T) {
	handler := newTestRoutingHandler(
		previewRule("anime", 80, `{"field": "genre", "operator": "contains", "value": "anime"}`),
		previewRule("nineties", 40, `{"field": "year", "operator": "between", "value": {"min": 1990, "max": 1999}}`),
		previewRule("horror", 60, `{"field": "genre", "operator": "equals", "value": "horror"}`),
	)

	input := &PreviewRoutingInput{}
	input.Body.Item = RoutingContentItem{
		Title:  "Cowboy Bebop",
		Type:   "show",
		Genres: []string{"anime", "sci-fi"},
		Year:   1998,
	}

	output, err := handler.Preview(context.Background(), input)
	require.NoError(t, err)

	require.Equal(t, 2, output.Body.Count)
	assert.Equal(t, "anime", output.Body.Decisions[0].RuleName)
	assert.Equal(t, 80, output.Body.Decisions[0].Weight)
	assert.Equal(t, "nineties", output.Body.Decisions[1].RuleName)
}

func TestRoutingHandler_PreviewNoMatches(t *testing.T) {
	handler := newTestRoutingHandler(
		previewRule("horror", 60, `{"field": "genre", "operator": "equals", "value": "horror"}`),
	)

	input := &PreviewRoutingInput{}
	input.Body.Item = RoutingContentItem{Title: "Paddington", Type: "show", Genres: []string{"family"}}

	output, err := handler.Preview(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 0, output.Body.Count)
	assert.NotNil(t, output.Body.Decisions, "decisions is empty, not absent")
}

func TestRoutingHandler_PreviewUserContext(t *testing.T) {
	handler := newTestRoutingHandler(
		previewRule("for-sam", 70, `{"field": "user", "operator": "equals", "value": "sam"}`),
	)

	input := &PreviewRoutingInput{}
	input.Body.Item = RoutingContentItem{Title: "Severance", Type: "show"}
	input.Body.UserName = "Sam"

	output, err := handler.Preview(context.Background(), input)
	require.NoError(t, err)

	require.Equal(t, 1, output.Body.Count)
	assert.Equal(t, "for-sam", output.Body.Decisions[0].RuleName)
}
