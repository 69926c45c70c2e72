package provider

import (
	"context"
	"fmt"
	"strings"
)

// GenerateRequest 发送给上游模型服务的生成参数。
type GenerateRequest struct {
	Prompt string
	// ModelID 是目录内的模型标识，各适配器自行映射到上游的模型名。
	ModelID string
	Width   int
	Height  int
}

// ImageResult 上游生成结果，两种形态二选一：
// 内联字节（Data 非空）或托管地址（URL 非空）。
type ImageResult struct {
	Data     []byte
	MimeType string
	URL      string
}

// IsInline 返回结果是否为内联字节。
func (r ImageResult) IsInline() bool {
	return len(r.Data) > 0
}

// Error 表示上游调用失败，保留状态码与响应片段以便排查。
type Error struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 512 {
		body = body[:512]
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, body)
	}
	return fmt.Sprintf("%s: %s", e.Provider, body)
}

// Provider 上游图像生成服务的统一接口。
type Provider interface {
	ProviderID() string
	Generate(ctx context.Context, request GenerateRequest) (*ImageResult, error)
}

// Registry 按名称保存已配置的适配器。
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under its ProviderID.
func (r *Registry) Register(p Provider) {
	if r == nil || p == nil {
		return
	}
	r.providers[p.ProviderID()] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.providers[name]
	return p, ok
}
