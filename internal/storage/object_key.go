package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"pixelforge/internal/utils"

	"github.com/google/uuid"
)

func sanitizePathSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	builder := strings.Builder{}
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			builder.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			builder.WriteByte(ch + 32)
		case ch == '-', ch == '_':
			builder.WriteByte(ch)
		}
	}
	return builder.String()
}

// GenerateKey 为一条生成结果构造对象键，形如
// generations/image/2026-01-02_a1b2c3d4.png。
func GenerateKey(outputType, mimeType string) string {
	category := sanitizePathSegment(outputType)
	if category == "" {
		category = "misc"
	}

	ext := utils.ExtensionFromMime(mimeType)
	if ext == "" {
		ext = "png"
	}

	date := time.Now().UTC().Format("2006-01-02")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return path.Join("generations", category, fmt.Sprintf("%s_%s.%s", date, suffix, ext))
}

func joinPrefix(prefix, key string) string {
	cleanPrefix := trimPrefix(prefix)
	if cleanPrefix == "" {
		return strings.TrimLeft(key, "/")
	}
	return path.Join(cleanPrefix, strings.TrimLeft(key, "/"))
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}
