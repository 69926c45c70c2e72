package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"pixelforge/internal/config"

	"github.com/stretchr/testify/require"
)

func TestGenerateKeyShape(t *testing.T) {
	key := GenerateKey("IMAGE", "image/png")
	matched, err := regexp.MatchString(`^generations/image/\d{4}-\d{2}-\d{2}_[0-9a-f]{8}\.png$`, key)
	require.NoError(t, err)
	require.True(t, matched, "unexpected key: %s", key)
}

func TestGenerateKeyUnknownMimeFallsBackToPNG(t *testing.T) {
	key := GenerateKey("IMAGE", "application/octet-stream")
	require.Regexp(t, `\.png$`, key)
}

func TestGenerateKeyUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		key := GenerateKey("IMAGE", "image/jpeg")
		if _, ok := seen[key]; ok {
			t.Fatalf("duplicate key: %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	key := GenerateKey("IMAGE", "image/png")
	stored, err := store.Save(context.Background(), []byte("payload"), key, "image/png")
	require.NoError(t, err)
	require.Equal(t, key, stored)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(stored)))
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
}

func TestLocalStorageSaveRejectsEmpty(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), nil, "generations/image/x.png", "image/png")
	require.Error(t, err)

	_, err = store.Save(context.Background(), []byte("payload"), "  ", "image/png")
	require.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	cfg := config.Config{StoragePublicBaseURL: "https://cdn.example.com/"}
	require.Equal(t, "https://cdn.example.com/generations/image/a.png", PublicURL(cfg, "generations/image/a.png"))

	cfg.StoragePublicBaseURL = "/files"
	require.Equal(t, "/files/generations/image/a.png", PublicURL(cfg, "/generations/image/a.png"))

	cfg.StoragePublicBaseURL = ""
	require.Equal(t, "/generations/image/a.png", PublicURL(cfg, "generations/image/a.png"))
}

func TestNewStorageUnsupportedType(t *testing.T) {
	_, err := NewStorage(config.Config{StorageType: "ftp"})
	require.Error(t, err)
}
