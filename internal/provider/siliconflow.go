package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pixelforge/internal/catalog"
	"pixelforge/internal/config"

	"github.com/sirupsen/logrus"
)

// SiliconFlow 调用 SiliconFlow 图像生成接口，响应中携带托管图片的 URL。
type SiliconFlow struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewSiliconFlow creates a SiliconFlow adapter from configuration.
func NewSiliconFlow(cfg config.Config) (*SiliconFlow, error) {
	key := strings.TrimSpace(cfg.SiliconFlowAPIKey)
	if key == "" {
		return nil, errors.New("siliconflow api key is not configured")
	}
	endpoint := strings.TrimSpace(cfg.SiliconFlowEndpoint)
	if endpoint == "" {
		endpoint = "https://api.siliconflow.cn/v1/images/generations"
	}

	return &SiliconFlow{
		apiKey:     key,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (s *SiliconFlow) ProviderID() string {
	return catalog.ProviderSiliconFlow
}

type sfRequest struct {
	Model             string `json:"model"`
	Prompt            string `json:"prompt"`
	ImageSize         string `json:"image_size"`
	NumInferenceSteps int    `json:"num_inference_steps"`
	N                 int    `json:"n"`
}

type sfImage struct {
	URL string `json:"url"`
}

type sfResponse struct {
	Images []sfImage `json:"images"`
	Data   []sfImage `json:"data"`
}

// Generate sends the prompt and returns the hosted image URL.
func (s *SiliconFlow) Generate(ctx context.Context, request GenerateRequest) (*ImageResult, error) {
	if s == nil {
		return nil, errors.New("siliconflow provider not initialised")
	}

	payload := sfRequest{
		Model:             request.ModelID,
		Prompt:            request.Prompt,
		ImageSize:         fmt.Sprintf("%dx%d", request.Width, request.Height),
		NumInferenceSteps: 20,
		N:                 1,
	}
	bs, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("siliconflow marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("siliconflow create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	logrus.WithFields(logrus.Fields{
		"model":      request.ModelID,
		"image_size": payload.ImageSize,
	}).Info("siliconflow_generate_start")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("siliconflow request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("siliconflow read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{
			Provider:   catalog.ProviderSiliconFlow,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var decoded sfResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("siliconflow decode response: %w", err)
	}

	// 兼容 images 与 data 两种响应字段
	url := ""
	if len(decoded.Images) > 0 {
		url = strings.TrimSpace(decoded.Images[0].URL)
	}
	if url == "" && len(decoded.Data) > 0 {
		url = strings.TrimSpace(decoded.Data[0].URL)
	}
	if url == "" {
		return nil, &Error{
			Provider: catalog.ProviderSiliconFlow,
			Body:     "response did not include an image url",
		}
	}

	return &ImageResult{URL: url}, nil
}
