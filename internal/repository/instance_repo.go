package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jamcalli/pulsarr/internal/models"
)

// instanceRepository implements InstanceRepository using GORM.
type instanceRepository struct {
	db *gorm.DB
}

// NewInstanceRepository creates a new InstanceRepository.
func NewInstanceRepository(db *gorm.DB) InstanceRepository {
	return &instanceRepository{db: db}
}

// Create creates a new instance.
func (r *instanceRepository) Create(ctx context.Context, instance *models.Instance) error {
	if err := instance.Validate(); err != nil {
		return fmt.Errorf("validating instance: %w", err)
	}
	return r.db.WithContext(ctx).Create(instance).Error
}

// GetByID retrieves an instance by ID.
func (r *instanceRepository) GetByID(ctx context.Context, id models.ULID) (*models.Instance, error) {
	var instance models.Instance
	if err := r.db.WithContext(ctx).First(&instance, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &instance, nil
}

// GetAll retrieves all instances.
func (r *instanceRepository) GetAll(ctx context.Context) ([]*models.Instance, error) {
	var instances []*models.Instance
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// GetByType retrieves instances for one acquisition-target kind.
func (r *instanceRepository) GetByType(ctx context.Context, targetType models.TargetType) ([]*models.Instance, error) {
	var instances []*models.Instance
	if err := r.db.WithContext(ctx).
		Where("type = ?", targetType).
		Order("name ASC").
		Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// Update updates an existing instance.
func (r *instanceRepository) Update(ctx context.Context, instance *models.Instance) error {
	if err := instance.Validate(); err != nil {
		return fmt.Errorf("validating instance: %w", err)
	}
	result := r.db.WithContext(ctx).Model(instance).Select("*").
		Omit("id", "created_at").Updates(instance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrInstanceNotFound
	}
	return nil
}

// Delete removes an instance by ID.
func (r *instanceRepository) Delete(ctx context.Context, id models.ULID) error {
	result := r.db.WithContext(ctx).Delete(&models.Instance{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrInstanceNotFound
	}
	return nil
}
