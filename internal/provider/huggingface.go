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
	"pixelforge/internal/utils"

	"github.com/sirupsen/logrus"
)

const hfDefaultMimeType = "image/png"

// HuggingFace 调用 HF 推理路由的文生图接口，返回原始图片字节。
type HuggingFace struct {
	apiToken   string
	endpoint   string
	httpClient *http.Client
}

// NewHuggingFace creates a HuggingFace adapter from configuration.
func NewHuggingFace(cfg config.Config) (*HuggingFace, error) {
	token := strings.TrimSpace(cfg.HuggingFaceAPIToken)
	if token == "" {
		return nil, errors.New("huggingface api token is not configured")
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.HuggingFaceEndpoint), "/")
	if endpoint == "" {
		endpoint = "https://router.huggingface.co/hf-inference/models"
	}

	return &HuggingFace{
		apiToken:   token,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (h *HuggingFace) ProviderID() string {
	return catalog.ProviderHuggingFace
}

type hfRequestParameters struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type hfRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters hfRequestParameters `json:"parameters"`
}

// Generate sends the prompt to the model's inference endpoint.
//
// 成功时响应体就是图片字节，Content-Type 标明格式，缺省按 PNG 处理。
func (h *HuggingFace) Generate(ctx context.Context, request GenerateRequest) (*ImageResult, error) {
	if h == nil {
		return nil, errors.New("huggingface provider not initialised")
	}

	repoID, ok := catalog.HuggingFaceRepoID(request.ModelID)
	if !ok {
		return nil, fmt.Errorf("huggingface model %q is not supported", request.ModelID)
	}

	payload := hfRequest{
		Inputs: request.Prompt,
		Parameters: hfRequestParameters{
			Width:  request.Width,
			Height: request.Height,
		},
	}
	bs, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("huggingface marshal request: %w", err)
	}

	url := h.endpoint + "/" + repoID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("huggingface create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.apiToken)
	req.Header.Set("Content-Type", "application/json")

	logrus.WithFields(logrus.Fields{
		"model":  request.ModelID,
		"repo":   repoID,
		"width":  request.Width,
		"height": request.Height,
	}).Info("huggingface_generate_start")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("huggingface read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{
			Provider:   catalog.ProviderHuggingFace,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	if len(body) == 0 {
		return nil, &Error{
			Provider: catalog.ProviderHuggingFace,
			Body:     "empty response body",
		}
	}

	mimeType := utils.NormalizeMimeType(resp.Header.Get("Content-Type"), hfDefaultMimeType)
	return &ImageResult{Data: body, MimeType: mimeType}, nil
}
