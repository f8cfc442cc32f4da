package evaluators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/router"
)

func TestCanonicalLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"English", "en"},
		{"english", "en"},
		{"fr-CA", "fr"},
		{"French", "fr"},
		{"ja", "ja"},
		{"Japanese", "ja"},
		{"klingon-made-up", "klingon-made-up"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalLanguage(tt.in))
		})
	}
}

func TestLanguageEvaluator_Condition(t *testing.T) {
	ev := NewLanguageEvaluator(&stubStore{})
	item := models.ContentItem{Title: "Akira", Type: models.ContentTypeMovie, Language: "ja"}
	ctx := context.Background()

	tests := []struct {
		name string
		cond *router.Condition
		want bool
	}{
		{"equals tag", leafOn("language", router.OpEquals, router.StringValue("ja")), true},
		{"equals english name", leafOn("language", router.OpEquals, router.StringValue("Japanese")), true},
		{"equals other language", leafOn("language", router.OpEquals, router.StringValue("Korean")), false},
		{"in mixed forms", leafOn("language", router.OpIn, router.StringListValue("English", "ja")), true},
		{"notIn", leafOn("language", router.OpNotIn, router.StringListValue("en", "fr")), true},
		{"unsupported contains", leafOn("language", router.OpContains, router.StringValue("ja")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.EvaluateCondition(ctx, tt.cond, item, router.Context{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLanguageEvaluator_Routing(t *testing.T) {
	foreign := criteriaRule("subtitled shelf", models.TargetTypeRadarr, 60, "language", `["Japanese", "Korean"]`)
	store := &stubStore{byKind: map[string][]*models.RouterRule{
		"language": {foreign},
	}}

	ev := NewLanguageEvaluator(store)
	item := models.ContentItem{Title: "Akira", Type: models.ContentTypeMovie, Language: "ja"}

	decisions, err := ev.EvaluateRouting(context.Background(), item, router.Context{})
	require.NoError(t, err)

	require.Len(t, decisions, 1)
	assert.Equal(t, "subtitled shelf", decisions[0].RuleName)
}

func TestLanguageEvaluator_AbstainsWithoutLanguage(t *testing.T) {
	ev := NewLanguageEvaluator(&stubStore{})
	item := models.ContentItem{Title: "Mystery", Type: models.ContentTypeMovie}

	decisions, err := ev.EvaluateRouting(context.Background(), item, router.Context{})
	require.NoError(t, err)
	assert.Nil(t, decisions)
}
