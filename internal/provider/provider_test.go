package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pixelforge/internal/catalog"
	"pixelforge/internal/config"

	"github.com/stretchr/testify/require"
)

func TestHuggingFaceGenerate(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	hf, err := NewHuggingFace(config.Config{
		HuggingFaceAPIToken: "hf-token",
		HuggingFaceEndpoint: server.URL,
	})
	require.NoError(t, err)

	result, err := hf.Generate(context.Background(), GenerateRequest{
		Prompt:  "a castle",
		ModelID: catalog.ModelSDXL,
		Width:   1024,
		Height:  768,
	})
	require.NoError(t, err)
	require.True(t, result.IsInline())
	require.Equal(t, []byte("jpeg-bytes"), result.Data)
	require.Equal(t, "image/jpeg", result.MimeType)

	require.Equal(t, "/stabilityai/stable-diffusion-xl-base-1.0", gotPath)
	require.Equal(t, "Bearer hf-token", gotAuth)
	require.Equal(t, "a castle", gotBody["inputs"])
	params, ok := gotBody["parameters"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(1024), params["width"])
	require.Equal(t, float64(768), params["height"])
}

func TestHuggingFaceGenerateDefaultsMimeType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	}))
	defer server.Close()

	hf, err := NewHuggingFace(config.Config{
		HuggingFaceAPIToken: "hf-token",
		HuggingFaceEndpoint: server.URL,
	})
	require.NoError(t, err)

	result, err := hf.Generate(context.Background(), GenerateRequest{
		Prompt:  "a castle",
		ModelID: catalog.ModelAnimagineXL4,
		Width:   1024,
		Height:  1024,
	})
	require.NoError(t, err)
	require.Equal(t, "image/png", result.MimeType)
}

func TestHuggingFaceGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"model is loading"}`))
	}))
	defer server.Close()

	hf, err := NewHuggingFace(config.Config{
		HuggingFaceAPIToken: "hf-token",
		HuggingFaceEndpoint: server.URL,
	})
	require.NoError(t, err)

	_, err = hf.Generate(context.Background(), GenerateRequest{
		Prompt:  "a castle",
		ModelID: catalog.ModelSDXL,
		Width:   1024,
		Height:  1024,
	})
	var provErr *Error
	require.True(t, errors.As(err, &provErr))
	require.Equal(t, http.StatusServiceUnavailable, provErr.StatusCode)
	require.Equal(t, catalog.ProviderHuggingFace, provErr.Provider)
}

func TestHuggingFaceGenerateUnknownModel(t *testing.T) {
	hf, err := NewHuggingFace(config.Config{HuggingFaceAPIToken: "hf-token"})
	require.NoError(t, err)

	_, err = hf.Generate(context.Background(), GenerateRequest{
		Prompt:  "a castle",
		ModelID: "not-a-model",
	})
	require.Error(t, err)
}

func TestSiliconFlowGenerate(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		require.Equal(t, "Bearer sf-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]string{{"url": "https://cdn.example.com/out.png"}},
		})
	}))
	defer server.Close()

	sf, err := NewSiliconFlow(config.Config{
		SiliconFlowAPIKey:   "sf-key",
		SiliconFlowEndpoint: server.URL,
	})
	require.NoError(t, err)

	result, err := sf.Generate(context.Background(), GenerateRequest{
		Prompt:  "a forest",
		ModelID: catalog.ModelStableDiffusion35Large,
		Width:   1792,
		Height:  1024,
	})
	require.NoError(t, err)
	require.False(t, result.IsInline())
	require.Equal(t, "https://cdn.example.com/out.png", result.URL)

	require.Equal(t, "1792x1024", gotBody["image_size"])
	require.Equal(t, float64(20), gotBody["num_inference_steps"])
	require.Equal(t, float64(1), gotBody["n"])
}

func TestSiliconFlowGenerateDataField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"url": "https://cdn.example.com/alt.png"}},
		})
	}))
	defer server.Close()

	sf, err := NewSiliconFlow(config.Config{
		SiliconFlowAPIKey:   "sf-key",
		SiliconFlowEndpoint: server.URL,
	})
	require.NoError(t, err)

	result, err := sf.Generate(context.Background(), GenerateRequest{
		Prompt:  "a forest",
		ModelID: catalog.ModelStableDiffusion35Large,
		Width:   1024,
		Height:  1024,
	})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/alt.png", result.URL)
}

func TestSiliconFlowGenerateMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"images": []map[string]string{}})
	}))
	defer server.Close()

	sf, err := NewSiliconFlow(config.Config{
		SiliconFlowAPIKey:   "sf-key",
		SiliconFlowEndpoint: server.URL,
	})
	require.NoError(t, err)

	_, err = sf.Generate(context.Background(), GenerateRequest{
		Prompt:  "a forest",
		ModelID: catalog.ModelStableDiffusion35Large,
		Width:   1024,
		Height:  1024,
	})
	var provErr *Error
	require.True(t, errors.As(err, &provErr))
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	hf, err := NewHuggingFace(config.Config{HuggingFaceAPIToken: "hf-token"})
	require.NoError(t, err)
	registry.Register(hf)

	got, ok := registry.Get(catalog.ProviderHuggingFace)
	require.True(t, ok)
	require.Equal(t, catalog.ProviderHuggingFace, got.ProviderID())

	_, ok = registry.Get(catalog.ProviderSiliconFlow)
	require.False(t, ok)
}
