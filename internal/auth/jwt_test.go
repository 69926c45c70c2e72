package auth

import (
	"testing"
	"time"

	"pixelforge/internal/entity"
)

func TestManagerGenerateAndParse(t *testing.T) {
	manager, err := NewManager("test-secret-key", "pixelforge", time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	user := &entity.DbUser{ID: 7, Email: "user@example.com", Role: entity.UserRoleUser}
	token, expiry, err := manager.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !expiry.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", expiry)
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("expected user id 7, got %d", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if claims.Role != entity.UserRoleUser {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
}

func TestManagerRejectsWrongSecret(t *testing.T) {
	m1, _ := NewManager("secret-one", "pixelforge", time.Hour)
	m2, _ := NewManager("secret-two", "pixelforge", time.Hour)

	token, _, err := m1.GenerateToken(&entity.DbUser{ID: 1, Email: "a@b.c", Role: entity.UserRoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m2.ParseToken(token); err == nil {
		t.Fatal("expected parse error with wrong secret")
	}
}

func TestManagerRejectsExpiredToken(t *testing.T) {
	manager, _ := NewManager("test-secret-key", "pixelforge", time.Nanosecond)
	token, _, err := manager.GenerateToken(&entity.DbUser{ID: 1, Email: "a@b.c", Role: entity.UserRoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := manager.ParseToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("  ", "pixelforge", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
