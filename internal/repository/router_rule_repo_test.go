package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jamcalli/pulsarr/internal/models"
)

func setupRouterRuleTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.RouterRule{})
	require.NoError(t, err)

	return db
}

func newTestRule(name string, targetType models.TargetType, order int) *models.RouterRule {
	return &models.RouterRule{
		Name:             name,
		TargetType:       targetType,
		TargetInstanceID: models.NewULID(),
		Order:            order,
		Enabled:          models.BoolPtr(true),
	}
}

func TestRouterRuleRepo_Create(t *testing.T) {
	db := setupRouterRuleTestDB(t)
	repo := NewRouterRuleRepository(db)
	ctx := context.Background()

	rule := newTestRule("anime", models.TargetTypeSonarr, 50)
	require.NoError(t, repo.Create(ctx, rule))
	assert.False(t, rule.ID.IsZero())

	t.Run("rejects invalid rule", func(t *testing.T) {
		err := repo.Create(ctx, &models.RouterRule{Name: ""})
		assert.Error(t, err)
	})
}

func TestRouterRuleRepo_GetByID(t *testing.T) {
	db := setupRouterRuleTestDB(t)
	repo := NewRouterRuleRepository(db)
	ctx := context.Background()

	rule := newTestRule("find me", models.TargetTypeRadarr, 10)
	require.NoError(t, repo.Create(ctx, rule))

	t.Run("found", func(t *testing.T) {
		found, err := repo.GetByID(ctx, rule.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "find me", found.Name)
	})

	t.Run("not found returns nil", func(t *testing.T) {
		found, err := repo.GetByID(ctx, models.NewULID())
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestRouterRuleRepo_GetAllEnabledRules(t *testing.T) {
	db := setupRouterRuleTestDB(t)
	repo := NewRouterRuleRepository(db)
	ctx := context.Background()

	low := newTestRule("low weight", models.TargetTypeSonarr, 10)
	high := newTestRule("high weight", models.TargetTypeSonarr, 90)
	disabled := newTestRule("disabled", models.TargetTypeSonarr, 100)
	disabled.Enabled = models.BoolPtr(false)
	movie := newTestRule("movie rule", models.TargetTypeRadarr, 50)

	for _, r := range []*models.RouterRule{low, high, disabled, movie} {
		require.NoError(t, repo.Create(ctx, r))
	}

	rules, err := repo.GetAllEnabledRules(ctx, models.TargetTypeSonarr)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "high weight", rules[0].Name, "higher weight first")
	assert.Equal(t, "low weight", rules[1].Name)
}

func TestRouterRuleRepo_GetRulesByType(t *testing.T) {
	db := setupRouterRuleTestDB(t)
	repo := NewRouterRuleRepository(db)
	ctx := context.Background()

	genreRule := newTestRule("genre rule", models.TargetTypeSonarr, 50)
	genreRule.Criteria = json.RawMessage(`{"genre":["Anime"]}`)

	userRule := newTestRule("user rule", models.TargetTypeSonarr, 60)
	userRule.Criteria = json.RawMessage(`{"users":["alice"]}`)

	treeRule := newTestRule("tree rule", models.TargetTypeSonarr, 70)
	treeRule.Condition = json.RawMessage(`{"field":"genre","operator":"in","value":["Anime"]}`)

	for _, r := range []*models.RouterRule{genreRule, userRule, treeRule} {
		require.NoError(t, repo.Create(ctx, r))
	}

	rules, err := repo.GetRulesByType(ctx, "genre")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "genre rule", rules[0].Name)

	rules, err = repo.GetRulesByType(ctx, "certification")
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestRouterRuleRepo_UpdateDelete(t *testing.T) {
	db := setupRouterRuleTestDB(t)
	repo := NewRouterRuleRepository(db)
	ctx := context.Background()

	rule := newTestRule("mutable", models.TargetTypeRadarr, 10)
	require.NoError(t, repo.Create(ctx, rule))

	rule.Name = "renamed"
	rule.Order = 25
	require.NoError(t, repo.Update(ctx, rule))

	found, err := repo.GetByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", found.Name)
	assert.Equal(t, 25, found.Order)

	require.NoError(t, repo.Delete(ctx, rule.ID))
	assert.ErrorIs(t, repo.Delete(ctx, rule.ID), models.ErrRuleNotFound)
}
