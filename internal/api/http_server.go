package api

import (
	"time"

	"pixelforge/internal/auth"
	"pixelforge/internal/config"
	"pixelforge/internal/model"
	"pixelforge/internal/service"
	"pixelforge/internal/storage"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	storage     storage.Storage
	authManager *auth.Manager

	// 服务层
	generationService *service.GenerationService
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, registry service.ProviderRegistry) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	generationSvc := service.NewGenerationService(cfg, repo, store, registry)

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		authManager:       authManager,
		generationService: generationSvc,
	}, nil
}
