package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jamcalli/pulsarr/internal/models"
)

// routerRuleRepository implements RouterRuleRepository using GORM.
type routerRuleRepository struct {
	db *gorm.DB
}

// NewRouterRuleRepository creates a new RouterRuleRepository.
func NewRouterRuleRepository(db *gorm.DB) RouterRuleRepository {
	return &routerRuleRepository{db: db}
}

// Create creates a new router rule.
func (r *routerRuleRepository) Create(ctx context.Context, rule *models.RouterRule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("validating router rule: %w", err)
	}
	return r.db.WithContext(ctx).Create(rule).Error
}

// GetByID retrieves a router rule by ID.
func (r *routerRuleRepository) GetByID(ctx context.Context, id models.ULID) (*models.RouterRule, error) {
	var rule models.RouterRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// GetAll retrieves all router rules.
func (r *routerRuleRepository) GetAll(ctx context.Context) ([]*models.RouterRule, error) {
	var rules []*models.RouterRule
	if err := r.db.WithContext(ctx).
		Order("rule_order DESC, created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Update updates an existing router rule.
func (r *routerRuleRepository) Update(ctx context.Context, rule *models.RouterRule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("validating router rule: %w", err)
	}
	result := r.db.WithContext(ctx).Model(rule).Select("*").
		Omit("id", "created_at").Updates(rule)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrRuleNotFound
	}
	return nil
}

// Delete removes a router rule by ID.
func (r *routerRuleRepository) Delete(ctx context.Context, id models.ULID) error {
	result := r.db.WithContext(ctx).Delete(&models.RouterRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrRuleNotFound
	}
	return nil
}

// GetAllEnabledRules retrieves enabled rules for one acquisition-target kind.
func (r *routerRuleRepository) GetAllEnabledRules(ctx context.Context, targetType models.TargetType) ([]*models.RouterRule, error) {
	var rules []*models.RouterRule
	if err := r.db.WithContext(ctx).
		Where("target_type = ? AND enabled = ?", targetType, true).
		Order("rule_order DESC, created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// GetRulesByType retrieves enabled legacy rules whose criteria map carries
// the given key. Criteria is stored as opaque JSON text, so the key match
// happens here rather than in SQL; this keeps the query portable across
// SQLite, Postgres, and MySQL.
func (r *routerRuleRepository) GetRulesByType(ctx context.Context, kind string) ([]*models.RouterRule, error) {
	var rules []*models.RouterRule
	if err := r.db.WithContext(ctx).
		Where("enabled = ? AND criteria IS NOT NULL", true).
		Order("rule_order DESC, created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}

	matched := make([]*models.RouterRule, 0, len(rules))
	for _, rule := range rules {
		if _, ok := rule.CriteriaMap()[kind]; ok {
			matched = append(matched, rule)
		}
	}
	return matched, nil
}
