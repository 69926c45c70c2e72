package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pixelforge/internal/provider"
	"pixelforge/internal/utils"
)

const (
	normalizerFetchTimeout = 60 * time.Second
	defaultImageMimeType   = "image/png"
)

// ContentNormalizer 把上游返回的任意形态结果统一成原始字节加 MIME 类型，
// 供存储层直接写入。
type ContentNormalizer struct {
	httpClient *http.Client
}

// NewContentNormalizer creates a normalizer with its own HTTP client.
func NewContentNormalizer() *ContentNormalizer {
	return &ContentNormalizer{
		httpClient: &http.Client{Timeout: normalizerFetchTimeout},
	}
}

// Normalize resolves a provider result into raw bytes and a MIME type.
//
// 支持三种形态：内联字节、data URL、托管的 http(s) URL。
func (n *ContentNormalizer) Normalize(ctx context.Context, result provider.ImageResult) ([]byte, string, error) {
	if result.IsInline() {
		return result.Data, utils.NormalizeMimeType(result.MimeType, defaultImageMimeType), nil
	}

	url := strings.TrimSpace(result.URL)
	switch {
	case url == "":
		return nil, "", fmt.Errorf("provider result has neither data nor url")
	case strings.HasPrefix(url, "data:"):
		return utils.DecodeDataURL(url)
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return n.fetch(ctx, url)
	default:
		return nil, "", fmt.Errorf("unsupported content url scheme: %s", url)
	}
}

func (n *ContentNormalizer) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create fetch request: %w", err)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("fetch content: http %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read content: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("fetched content is empty")
	}

	mimeType := utils.NormalizeMimeType(resp.Header.Get("Content-Type"), defaultImageMimeType)
	return data, mimeType, nil
}
