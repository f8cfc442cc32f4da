package evaluators

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/router"
)

func TestCertificationEvaluator_Condition(t *testing.T) {
	ev := NewCertificationEvaluator(&stubStore{})
	item := models.ContentItem{Title: "Heat", Type: models.ContentTypeMovie, Certification: "R"}
	ctx := context.Background()

	tests := []struct {
		name string
		cond *router.Condition
		want bool
	}{
		{"equals", leafOn("certification", router.OpEquals, router.StringValue("R")), true},
		{"equals case-insensitive", leafOn("certification", router.OpEquals, router.StringValue("r")), true},
		{"notEquals", leafOn("certification", router.OpNotEquals, router.StringValue("PG-13")), true},
		{"in", leafOn("certification", router.OpIn, router.StringListValue("PG-13", "R")), true},
		{"notIn", leafOn("certification", router.OpNotIn, router.StringListValue("G", "PG")), true},
		{"unsupported greaterThan", leafOn("certification", router.OpGreaterThan, router.NumberValue(1)), false},
		{"unsupported regex", leafOn("certification", router.OpRegex, router.StringValue("^R$")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.EvaluateCondition(ctx, tt.cond, item, router.Context{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCertificationEvaluator_FieldOwnership(t *testing.T) {
	ev := NewCertificationEvaluator(&stubStore{})
	assert.True(t, ev.CanEvaluateConditionField("certification"))
	assert.False(t, ev.CanEvaluateConditionField("genre"))
}

func TestCertificationEvaluator_RoutingAbstainsWithoutRating(t *testing.T) {
	ev := NewCertificationEvaluator(&stubStore{})
	item := models.ContentItem{Title: "Unrated", Type: models.ContentTypeMovie}

	decisions, err := ev.EvaluateRouting(context.Background(), item, router.Context{})
	require.NoError(t, err)
	assert.Nil(t, decisions)
}

func TestCertificationEvaluator_RoutingMatches(t *testing.T) {
	matching := criteriaRule("mature", models.TargetTypeRadarr, 70, "certification", `["R", "NC-17"]`)
	scalar := criteriaRule("scalar", models.TargetTypeRadarr, 60, "certification", `"r"`)
	other := criteriaRule("family", models.TargetTypeRadarr, 50, "certification", `["G"]`)
	store := &stubStore{byKind: map[string][]*models.RouterRule{
		"certification": {matching, scalar, other},
	}}

	ev := NewCertificationEvaluator(store)
	item := models.ContentItem{Title: "Heat", Type: models.ContentTypeMovie, Certification: "R"}

	decisions, err := ev.EvaluateRouting(context.Background(), item, router.Context{})
	require.NoError(t, err)

	require.Len(t, decisions, 2)
	assert.Equal(t, "mature", decisions[0].RuleName)
	assert.Equal(t, "scalar", decisions[1].RuleName)
}

func TestCertificationEvaluator_RoutingNoMatchIsEmptyNotNil(t *testing.T) {
	store := &stubStore{byKind: map[string][]*models.RouterRule{
		"certification": {criteriaRule("family", models.TargetTypeRadarr, 50, "certification", `["G"]`)},
	}}

	ev := NewCertificationEvaluator(store)
	item := models.ContentItem{Title: "Heat", Type: models.ContentTypeMovie, Certification: "R"}

	decisions, err := ev.EvaluateRouting(context.Background(), item, router.Context{})
	require.NoError(t, err)
	assert.NotNil(t, decisions)
	assert.Empty(t, decisions)
}

func TestCertificationEvaluator_RoutingSkipsConditionRules(t *testing.T) {
	hybrid := criteriaRule("hybrid", models.TargetTypeRadarr, 70, "certification", `["R"]`)
	hybrid.Condition = json.RawMessage(`{"field": "certification", "operator": "equals", "value": "R"}`)
	store := &stubStore{byKind: map[string][]*models.RouterRule{
		"certification": {hybrid},
	}}

	ev := NewCertificationEvaluator(store)
	item := models.ContentItem{Title: "Heat", Type: models.ContentTypeMovie, Certification: "R"}

	decisions, err := ev.EvaluateRouting(context.Background(), item, router.Context{})
	require.NoError(t, err)
	assert.Empty(t, decisions)
}

func TestCertificationEvaluator_MetadataFallback(t *testing.T) {
	store := &stubStore{byKind: map[string][]*models.RouterRule{
		"certification": {criteriaRule("mature", models.TargetTypeRadarr, 70, "certification", `["R"]`)},
	}}

	ev := NewCertificationEvaluator(store)
	item := models.ContentItem{
		Title:    "Heat",
		Type:     models.ContentTypeMovie,
		Metadata: map[string]string{"certification": "R"},
	}

	ok, err := ev.CanEvaluate(context.Background(), item, router.Context{})
	require.NoError(t, err)
	assert.True(t, ok, "metadata rating makes the item evaluable")

	decisions, err := ev.EvaluateRouting(context.Background(), item, router.Context{})
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, "mature", decisions[0].RuleName)

	matched, err := ev.EvaluateCondition(context.Background(),
		leafOn("certification", router.OpEquals, router.StringValue("R")), item, router.Context{})
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestCertificationEvaluator_RoutingSkipsOtherTargetRules(t *testing.T) {
	tvOnly := criteriaRule("tv only", models.TargetTypeSonarr, 70, "certification", `["R"]`)
	store := &stubStore{byKind: map[string][]*models.RouterRule{
		"certification": {tvOnly},
	}}

	ev := NewCertificationEvaluator(store)
	item := models.ContentItem{Title: "Heat", Type: models.ContentTypeMovie, Certification: "R"}

	decisions, err := ev.EvaluateRouting(context.Background(), item, router.Context{})
	require.NoError(t, err)
	assert.Empty(t, decisions, "sonarr rules do not route movies")
}

func TestCertificationEvaluator_RoutingStoreError(t *testing.T) {
	ev := NewCertificationEvaluator(&stubStore{err: errStubDown})
	item := models.ContentItem{Title: "Heat", Type: models.ContentTypeMovie, Certification: "R"}

	_, err := ev.EvaluateRouting(context.Background(), item, router.Context{})
	assert.ErrorIs(t, err, errStubDown)
}
