package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pixelforge/internal/catalog"
	"pixelforge/internal/config"
	"pixelforge/internal/entity"
	"pixelforge/internal/model"
	"pixelforge/internal/provider"
	"pixelforge/internal/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	providerCallTimeout = 120 * time.Second
	persistTimeout      = 30 * time.Second
)

// ErrUserNotFound 请求中的用户不存在。
var ErrUserNotFound = errors.New("user not found")

// InvalidRequestError 请求参数校验失败。
type InvalidRequestError struct {
	Violations []string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + strings.Join(e.Violations, "; ")
}

// UnsupportedModelError 模型不在目录中。
type UnsupportedModelError struct {
	ModelID string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported model: %s", e.ModelID)
}

// ModelUnavailableError 模型在目录中但当前不可用。
type ModelUnavailableError struct {
	ModelID string
	Label   string
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model %s is currently unavailable", e.Label)
}

// ProviderRegistry 按名称查找已配置的上游适配器。
type ProviderRegistry interface {
	Get(name string) (provider.Provider, bool)
}

// GenerationService 驱动完整的生成流水线：
// 校验、解析模型、扣减积分、调用上游、归一化并上传、落库。
type GenerationService struct {
	cfg        config.Config
	repo       model.Repository
	store      storage.Storage
	registry   ProviderRegistry
	normalizer *ContentNormalizer
}

// NewGenerationService creates the orchestrator.
func NewGenerationService(cfg config.Config, repo model.Repository, store storage.Storage, registry ProviderRegistry) *GenerationService {
	return &GenerationService{
		cfg:        cfg,
		repo:       repo,
		store:      store,
		registry:   registry,
		normalizer: NewContentNormalizer(),
	}
}

// Generate runs the pipeline for one image generation request.
//
// 扣减积分之后的任何失败都会补偿退款，保证失败的请求不消耗余额。
// 流程不是幂等的：重试由调用方自行决定，且会再次计费。
func (s *GenerationService) Generate(ctx context.Context, userID uint, request entity.GenerateRequest) (*entity.DbGeneration, error) {
	if s == nil || s.repo == nil {
		return nil, errors.New("generation service not initialised")
	}

	prompt := strings.TrimSpace(request.Prompt)
	aspectRatio := strings.TrimSpace(request.AspectRatio)
	if aspectRatio == "" {
		aspectRatio = catalog.DefaultAspectRatio
	}

	var violations []string
	if prompt == "" {
		violations = append(violations, "prompt is required")
	}
	// 长度按字符计，不按字节
	if utf8.RuneCountInString(prompt) > catalog.MaxPromptLength {
		violations = append(violations, fmt.Sprintf("prompt exceeds %d characters", catalog.MaxPromptLength))
	}
	size, sizeOK := catalog.SizeFor(aspectRatio)
	if !sizeOK {
		violations = append(violations, fmt.Sprintf("unsupported aspect ratio: %s", aspectRatio))
	}
	if strings.TrimSpace(request.ModelID) == "" {
		violations = append(violations, "modelId is required")
	}
	if len(violations) > 0 {
		return nil, &InvalidRequestError{Violations: violations}
	}

	// 未知或不可用的模型在任何扣减之前拒绝
	modelOption, ok := catalog.ModelByID(request.ModelID)
	if !ok {
		return nil, &UnsupportedModelError{ModelID: request.ModelID}
	}
	if !modelOption.Available {
		return nil, &ModelUnavailableError{ModelID: modelOption.ID, Label: modelOption.Label}
	}

	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := s.repo.DeductCredits(ctx, userID, modelOption.Cost); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, entity.ErrInsufficientCredits) {
			return nil, err
		}
		return nil, fmt.Errorf("deduct credits: %w", err)
	}

	generation, err := s.runPipeline(ctx, userID, prompt, modelOption, size)
	if err != nil {
		s.refund(userID, modelOption.Cost)
		return nil, err
	}
	return generation, nil
}

func (s *GenerationService) runPipeline(ctx context.Context, userID uint, prompt string, modelOption catalog.ModelOption, size catalog.ImageSize) (*entity.DbGeneration, error) {
	upstream, ok := s.registry.Get(modelOption.Provider)
	if !ok {
		return nil, fmt.Errorf("provider %s is not configured", modelOption.Provider)
	}

	providerCtx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	result, err := upstream.Generate(providerCtx, provider.GenerateRequest{
		Prompt:  prompt,
		ModelID: modelOption.ID,
		Width:   size.Width,
		Height:  size.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("provider generate: %w", err)
	}

	data, mimeType, err := s.normalizer.Normalize(ctx, *result)
	if err != nil {
		return nil, fmt.Errorf("normalize content: %w", err)
	}

	persistCtx, cancelPersist := context.WithTimeout(ctx, persistTimeout)
	defer cancelPersist()

	key := storage.GenerateKey(entity.OutputTypeImage, mimeType)
	storedKey, err := s.store.Save(persistCtx, data, key, mimeType)
	if err != nil {
		return nil, fmt.Errorf("store content: %w", err)
	}

	generation := &entity.DbGeneration{
		OutputType:  entity.OutputTypeImage,
		Status:      entity.GenerationStatusCompleted,
		URL:         storage.PublicURL(s.cfg, storedKey),
		StorageKey:  storedKey,
		MimeType:    mimeType,
		Width:       size.Width,
		Height:      size.Height,
		Prompt:      prompt,
		Model:       modelOption.ID,
		Provider:    modelOption.Provider,
		CreditsCost: modelOption.Cost,
		IsPublic:    true,
		UserID:      &userID,
	}
	if err := s.repo.CreateGeneration(persistCtx, generation); err != nil {
		return nil, fmt.Errorf("persist generation: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"model":       modelOption.ID,
		"provider":    modelOption.Provider,
		"storage_key": storedKey,
		"mime_type":   mimeType,
	}).Info("generation_completed")

	return generation, nil
}

// refund 补偿扣减。使用独立的 context，请求取消不应阻止退款。
func (s *GenerationService) refund(userID uint, amount int64) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.repo.AddCredits(ctx, userID, amount); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"amount":  amount,
		}).Error("generation_refund_failed")
		return
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  amount,
	}).Info("generation_refunded")
}
