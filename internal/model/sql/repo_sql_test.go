package sql

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"pixelforge/internal/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *GormRepository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entity.DbUser{}, &entity.DbGeneration{}))
	return NewGormRepository(db)
}

func createTestUser(t *testing.T, repo *GormRepository, credits int64) *entity.DbUser {
	t.Helper()
	user := &entity.DbUser{
		Email:        "ledger@example.com",
		PasswordHash: "x",
		Role:         entity.UserRoleUser,
		IsActive:     true,
		Credits:      credits,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestDeductCredits(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, 3)
	ctx := context.Background()

	require.NoError(t, repo.DeductCredits(ctx, user.ID, 2))

	balance, err := repo.GetUserCredits(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), balance)

	// 余额不足时扣减失败且余额不变
	err = repo.DeductCredits(ctx, user.ID, 2)
	require.ErrorIs(t, err, entity.ErrInsufficientCredits)

	balance, err = repo.GetUserCredits(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), balance)
}

func TestDeductCreditsUnknownUser(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.DeductCredits(context.Background(), 9999, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeductCreditsConcurrent(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, 5)
	ctx := context.Background()

	const workers = 8
	results := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = repo.DeductCredits(ctx, user.ID, 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	insufficient := 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, entity.ErrInsufficientCredits):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 5, succeeded)
	require.Equal(t, 3, insufficient)

	balance, err := repo.GetUserCredits(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)
}

func TestAddCredits(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, 1)
	ctx := context.Background()

	require.NoError(t, repo.AddCredits(ctx, user.ID, 4))

	balance, err := repo.GetUserCredits(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(5), balance)

	require.ErrorIs(t, repo.AddCredits(ctx, 9999, 1), gorm.ErrRecordNotFound)
}

func TestGenerationRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, 10)
	ctx := context.Background()

	generation := &entity.DbGeneration{
		OutputType:  entity.OutputTypeImage,
		Status:      entity.GenerationStatusCompleted,
		URL:         "https://cdn.example.com/generations/image/2026-01-01_abcd1234.png",
		StorageKey:  "generations/image/2026-01-01_abcd1234.png",
		MimeType:    "image/png",
		Width:       1024,
		Height:      1024,
		Prompt:      "a lighthouse at dusk",
		Model:       "sdxl",
		Provider:    "HuggingFace",
		CreditsCost: 1,
		IsPublic:    true,
		UserID:      &user.ID,
	}
	require.NoError(t, repo.CreateGeneration(ctx, generation))
	require.NotZero(t, generation.ID)

	loaded, err := repo.GetGeneration(ctx, generation.ID)
	require.NoError(t, err)
	require.Equal(t, generation.StorageKey, loaded.StorageKey)
	require.Equal(t, generation.Prompt, loaded.Prompt)
	require.NotNil(t, loaded.UserID)
	require.Equal(t, user.ID, *loaded.UserID)

	mine, total, err := repo.ListGenerationsByUser(ctx, user.ID, entity.BaseParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, mine, 1)

	public, total, err := repo.ListPublicGenerations(ctx, entity.BaseParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, public, 1)

	require.NoError(t, repo.DeleteGeneration(ctx, generation.ID))
	_, err = repo.GetGeneration(ctx, generation.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateUser(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, 0)
	ctx := context.Background()

	name := "Renamed"
	active := false
	require.NoError(t, repo.UpdateUser(ctx, user.ID, entity.UserUpdates{DisplayName: &name, IsActive: &active}))

	loaded, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", loaded.DisplayName)
	require.False(t, loaded.IsActive)

	// 空更新为 no-op
	require.NoError(t, repo.UpdateUser(ctx, user.ID, entity.UserUpdates{}))
}
