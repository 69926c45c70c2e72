package sql

import (
	"gorm.io/gorm"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// normalizePagination clamps page/page_size to sane values.
func normalizePagination(page, pageSize int64) (int, int) {
	p := 1
	ps := 20
	if page > 0 {
		p = int(page)
	}
	if pageSize > 0 {
		ps = int(pageSize)
	}
	if ps > 100 {
		ps = 100
	}
	return p, ps
}
