// Package repository defines data access interfaces for pulsarr entities.
// All database access goes through these interfaces, enabling easy testing
// with mock implementations.
package repository

import (
	"context"

	"github.com/jamcalli/pulsarr/internal/models"
)

// RouterRuleRepository manages router rule persistence.
//
// The routing engine only ever reads rules; writes happen through the
// authoring API.
type RouterRuleRepository interface {
	Create(ctx context.Context, rule *models.RouterRule) error
	GetByID(ctx context.Context, id models.ULID) (*models.RouterRule, error)
	GetAll(ctx context.Context) ([]*models.RouterRule, error)
	Update(ctx context.Context, rule *models.RouterRule) error
	Delete(ctx context.Context, id models.ULID) error

	// GetAllEnabledRules returns enabled rules for one acquisition-target
	// kind, in storage order (rule weight descending, then creation order).
	GetAllEnabledRules(ctx context.Context, targetType models.TargetType) ([]*models.RouterRule, error)

	// GetRulesByType returns enabled legacy rules whose flat criteria map
	// carries the given key (e.g. "genre", "users", "certification").
	GetRulesByType(ctx context.Context, kind string) ([]*models.RouterRule, error)
}

// InstanceRepository manages acquisition-target instance persistence.
type InstanceRepository interface {
	Create(ctx context.Context, instance *models.Instance) error
	GetByID(ctx context.Context, id models.ULID) (*models.Instance, error)
	GetAll(ctx context.Context) ([]*models.Instance, error)
	GetByType(ctx context.Context, targetType models.TargetType) ([]*models.Instance, error)
	Update(ctx context.Context, instance *models.Instance) error
	Delete(ctx context.Context, id models.ULID) error
}
