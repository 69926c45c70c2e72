package model

import (
	"context"

	"pixelforge/internal/entity"
)

// Repository 数据访问接口。
type Repository interface {
	// 用户
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	ListUsers(ctx context.Context, query entity.UserQuery) ([]entity.DbUser, int64, error)
	CountUsers(ctx context.Context) (int64, error)

	// 积分账本。扣减必须是原子的条件更新，余额不足时返回
	// entity.ErrInsufficientCredits 且不产生任何变更。
	GetUserCredits(ctx context.Context, userID uint) (int64, error)
	DeductCredits(ctx context.Context, userID uint, amount int64) error
	AddCredits(ctx context.Context, userID uint, amount int64) error

	// 生成记录
	CreateGeneration(ctx context.Context, generation *entity.DbGeneration) error
	GetGeneration(ctx context.Context, id uint) (*entity.DbGeneration, error)
	ListGenerationsByUser(ctx context.Context, userID uint, params entity.BaseParams) ([]entity.DbGeneration, int64, error)
	ListPublicGenerations(ctx context.Context, params entity.BaseParams) ([]entity.DbGeneration, int64, error)
	DeleteGeneration(ctx context.Context, id uint) error
}
