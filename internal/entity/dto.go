package entity

import (
	"errors"
	"time"
)

// ErrInsufficientCredits 表示余额不足，扣减未发生。
var ErrInsufficientCredits = errors.New("insufficient credits")

// GenerateRequest 图像生成请求体。
type GenerateRequest struct {
	Prompt      string `json:"prompt"`
	ModelID     string `json:"modelId"`
	AspectRatio string `json:"aspectRatio"`
}

// GenerateResponseData 生成成功时的响应数据。
type GenerateResponseData struct {
	Generation *DbGeneration `json:"generation"`
}

// GenerateResponse 生成接口的统一响应结构。
type GenerateResponse struct {
	Success bool                  `json:"success"`
	Data    *GenerateResponseData `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// Meta 包含分页元数据。
type Meta struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
	Total    int64 `json:"total"`
}

// BaseParams 包含通用的分页参数。
type BaseParams struct {
	PageSize int64 `json:"page_size" form:"page_size" query:"page_size"`
	Page     int64 `json:"page" form:"page" query:"page"`
}

// UserQuery 用户列表查询参数。
type UserQuery struct {
	BaseParams
	Role    string `json:"role" form:"role" query:"role"`
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

// UserUpdates 管理员可修改的用户字段，nil 表示不变。
type UserUpdates struct {
	DisplayName *string
	Role        *string
	IsActive    *bool
}

// IsEmpty 判断是否没有任何修改。
func (u UserUpdates) IsEmpty() bool {
	return u.DisplayName == nil && u.Role == nil && u.IsActive == nil
}

// AuthRegisterRequest 注册请求体。
type AuthRegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// AuthLoginRequest 登录请求体。
type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse 登录/注册成功后的响应。
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}
