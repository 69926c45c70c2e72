package utils

import (
	"encoding/base64"
	"testing"
)

func TestEnsureDataURL(t *testing.T) {
	if got := EnsureDataURL("abc"); got != "data:image/png;base64,abc" {
		t.Fatalf("unexpected: %s", got)
	}
	if got := EnsureDataURL("data:image/jpeg;base64,abc"); got != "data:image/jpeg;base64,abc" {
		t.Fatalf("data url must pass through, got %s", got)
	}
}

func TestSplitDataURL(t *testing.T) {
	mime, payload := SplitDataURL("data:image/webp;base64,xyz")
	if mime != "image/webp" || payload != "xyz" {
		t.Fatalf("unexpected: %s %s", mime, payload)
	}

	mime, payload = SplitDataURL("rawbase64")
	if mime != "image/png" || payload != "rawbase64" {
		t.Fatalf("bare payload should default to png, got %s %s", mime, payload)
	}
}

func TestDecodeDataURL(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello"))

	data, mime, err := DecodeDataURL("data:image/jpeg;base64," + encoded)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected data: %s", data)
	}
	if mime != "image/jpeg" {
		t.Fatalf("unexpected mime: %s", mime)
	}

	// 裸 base64（没有 data: 前缀）也要能解，默认按 png 处理
	data, mime, err = DecodeDataURL(encoded)
	if err != nil {
		t.Fatalf("DecodeDataURL bare payload: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected data: %s", data)
	}
	if mime != "image/png" {
		t.Fatalf("unexpected mime: %s", mime)
	}

	if _, _, err := DecodeDataURL(""); err == nil {
		t.Fatal("empty payload must fail")
	}
	if _, _, err := DecodeDataURL("data:image/png;base64,!!!not-base64!!!"); err == nil {
		t.Fatal("invalid base64 must fail")
	}
}

func TestNormalizeMimeType(t *testing.T) {
	tests := []struct {
		in       string
		fallback string
		want     string
	}{
		{"image/png", "image/png", "image/png"},
		{"image/jpeg; charset=binary", "image/png", "image/jpeg"},
		{"  ", "image/png", "image/png"},
		{"", "application/octet-stream", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := NormalizeMimeType(tt.in, tt.fallback); got != tt.want {
			t.Fatalf("NormalizeMimeType(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestExtensionFromMime(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", "png"},
		{"image/jpeg", "jpg"},
		{"image/jpg", "jpg"},
		{"image/webp", "webp"},
		{"image/gif", "gif"},
		{"video/mp4", "mp4"},
		{"application/pdf", ""},
	}
	for _, tt := range tests {
		if got := ExtensionFromMime(tt.mime); got != tt.want {
			t.Fatalf("ExtensionFromMime(%q): expected %q, got %q", tt.mime, tt.want, got)
		}
	}
}
