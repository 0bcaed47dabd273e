package service

import (
	"testing"
	"time"

	"github.com/vvitengg/admissions-backend/internal/config"
)

func testAuthService(expiry time.Duration) *AuthService {
	return NewAuthService(&config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  expiry,
		BcryptCost: 4, // min cost, keeps tests fast
	})
}

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := testAuthService(time.Hour)

	hash, err := svc.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := svc.CheckPassword(hash, "password123"); err != nil {
		t.Errorf("CheckPassword() with correct password error = %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword() with wrong password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	svc := testAuthService(time.Hour)

	token, err := svc.GenerateAdminToken(7)
	if err != nil {
		t.Fatalf("GenerateAdminToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.AdminID != 7 {
		t.Errorf("AdminID = %d, want 7", claims.AdminID)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := testAuthService(time.Hour)

	token, err := svc.GenerateAdminToken(7)
	if err != nil {
		t.Fatalf("GenerateAdminToken() error = %v", err)
	}

	other := NewAuthService(&config.Config{JWTSecret: "different-secret", JWTExpiry: time.Hour})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("ValidateToken() accepted token signed with another secret")
	}

	if _, err := svc.ValidateToken(token + "x"); err == nil {
		t.Error("ValidateToken() accepted mangled token")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := testAuthService(-time.Minute)

	token, err := svc.GenerateAdminToken(7)
	if err != nil {
		t.Fatalf("GenerateAdminToken() error = %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("ValidateToken() accepted expired token")
	}
}
