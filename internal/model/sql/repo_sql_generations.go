package sql

import (
	"context"
	"fmt"

	"pixelforge/internal/entity"

	"gorm.io/gorm"
)

// CreateGeneration persists a finished generation record.
func (r *GormRepository) CreateGeneration(ctx context.Context, generation *entity.DbGeneration) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if generation == nil {
		return fmt.Errorf("generation is nil")
	}
	return r.db.WithContext(ctx).Create(generation).Error
}

// GetGeneration loads a generation by ID.
func (r *GormRepository) GetGeneration(ctx context.Context, id uint) (*entity.DbGeneration, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid generation id")
	}
	var generation entity.DbGeneration
	if err := r.db.WithContext(ctx).First(&generation, id).Error; err != nil {
		return nil, err
	}
	return &generation, nil
}

// ListGenerationsByUser returns a user's generations, newest first.
func (r *GormRepository) ListGenerationsByUser(ctx context.Context, userID uint, params entity.BaseParams) ([]entity.DbGeneration, int64, error) {
	if r == nil || r.db == nil {
		return nil, 0, fmt.Errorf("repository not initialised")
	}
	if userID == 0 {
		return nil, 0, fmt.Errorf("invalid user id")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbGeneration{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePagination(params.Page, params.PageSize)
	offset := (page - 1) * pageSize

	var generations []entity.DbGeneration
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&generations).Error; err != nil {
		return nil, 0, err
	}
	return generations, total, nil
}

// ListPublicGenerations returns public generations for the gallery, newest first.
func (r *GormRepository) ListPublicGenerations(ctx context.Context, params entity.BaseParams) ([]entity.DbGeneration, int64, error) {
	if r == nil || r.db == nil {
		return nil, 0, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbGeneration{}).Where("is_public = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePagination(params.Page, params.PageSize)
	offset := (page - 1) * pageSize

	var generations []entity.DbGeneration
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&generations).Error; err != nil {
		return nil, 0, err
	}
	return generations, total, nil
}

// DeleteGeneration removes a generation by ID.
func (r *GormRepository) DeleteGeneration(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid generation id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbGeneration{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
