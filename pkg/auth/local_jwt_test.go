package auth

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndVerifyTokens_RoundTrip(t *testing.T) {
	jwtAuth, err := NewLocalJWTAuth("test-secret-key", 0, 0)
	if err != nil {
		t.Fatalf("NewLocalJWTAuth failed: %v", err)
	}

	access, refresh, err := jwtAuth.GenerateTokens("user-42", "singer@lyricverse.app", "user")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("Expected non-empty access and refresh tokens")
	}

	user, err := jwtAuth.VerifyAccessToken(access)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}
	if user.ID != "user-42" || user.Email != "singer@lyricverse.app" || user.Role != "user" {
		t.Errorf("Claims did not survive the round trip: %+v", user)
	}

	claims, err := jwtAuth.VerifyRefreshToken(refresh)
	if err != nil {
		t.Fatalf("VerifyRefreshToken failed: %v", err)
	}
	if claims.UserID != "user-42" {
		t.Errorf("Expected refresh claims for user-42, got %s", claims.UserID)
	}
	if claims.TokenID == "" {
		t.Error("Expected refresh token to carry a token ID")
	}
}

func TestVerifyAccessToken_RejectsWrongSecret(t *testing.T) {
	issuer, _ := NewLocalJWTAuth("secret-a", 0, 0)
	verifier, _ := NewLocalJWTAuth("secret-b", 0, 0)

	access, _, err := issuer.GenerateTokens("user-1", "a@b.c", "user")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(access); err == nil {
		t.Error("Expected verification to fail for token signed with another secret")
	}
}

func TestVerifyAccessToken_RejectsExpiredToken(t *testing.T) {
	jwtAuth, _ := NewLocalJWTAuth("test-secret-key", -time.Minute, 0)

	access, _, err := jwtAuth.GenerateTokens("user-1", "a@b.c", "user")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}

	if _, err := jwtAuth.VerifyAccessToken(access); err == nil {
		t.Error("Expected verification to fail for expired token")
	}
}

func TestNewLocalJWTAuth_RequiresSecret(t *testing.T) {
	if _, err := NewLocalJWTAuth("", 0, 0); err == nil {
		t.Error("Expected error for empty secret")
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi", false},
		{"empty header", "", "", true},
		{"no scheme", "abc.def.ghi", "", true},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", true},
		{"blank token", "Bearer   ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.header)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractToken(%q) failed: %v", tt.header, err)
			}
			if !strings.EqualFold(got, tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
