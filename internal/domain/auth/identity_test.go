package auth

import (
	"testing"
	"time"
)

func TestParseTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateToken(secret, Identity{
		UserID: "u1",
		Email:  "u1@example.com",
		Roles:  []string{RoleAdmin},
	}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	identity, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if identity.UserID != "u1" || identity.Email != "u1@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if !identity.IsAdmin() {
		t.Fatal("expected admin role")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", Identity{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", Identity{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestParseTokenDefaultsEmployeeRole(t *testing.T) {
	token, err := GenerateToken("secret", Identity{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	identity, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !identity.HasRole(RoleEmployee) {
		t.Fatalf("expected employee fallback role, got %v", identity.Roles)
	}
}
