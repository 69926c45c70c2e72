package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

func EnsureDataURL(value string) string {
	if strings.HasPrefix(value, "data:") {
		return value
	}
	return "data:image/png;base64," + value
}

func SplitDataURL(value string) (string, string) {
	if !strings.HasPrefix(value, "data:") {
		return "image/png", value
	}

	value = strings.TrimPrefix(value, "data:")
	parts := strings.SplitN(value, ";base64,", 2)
	if len(parts) != 2 {
		return "image/png", ""
	}
	return parts[0], parts[1]
}

// DecodeDataURL decodes an inline base64 or data URL payload and returns the
// raw bytes together with the declared MIME type.
func DecodeDataURL(payload string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, "", fmt.Errorf("empty media payload")
	}

	mimeType, base64Payload := SplitDataURL(EnsureDataURL(trimmed))
	base64Payload = strings.TrimSpace(base64Payload)
	if base64Payload == "" {
		return nil, "", fmt.Errorf("empty base64 payload")
	}

	data, err := base64.StdEncoding.DecodeString(base64Payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}

	return data, NormalizeMimeType(mimeType, "image/png"), nil
}

// NormalizeMimeType 去除参数部分（如 ;charset=...），为空时返回 fallback。
func NormalizeMimeType(mimeType, fallback string) string {
	v := strings.TrimSpace(mimeType)
	if v == "" {
		return fallback
	}
	if idx := strings.Index(v, ";"); idx > 0 {
		v = strings.TrimSpace(v[:idx])
	}
	if v == "" {
		return fallback
	}
	return v
}

// ExtensionFromMime 返回 MIME 类型对应的文件扩展名（不含点）。
func ExtensionFromMime(mimeType string) string {
	switch strings.ToLower(NormalizeMimeType(mimeType, "")) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "video/mp4":
		return "mp4"
	default:
		return ""
	}
}
