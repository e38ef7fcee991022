package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.GenerateToken("u1", "Alice", time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := manager.VerifyToken(token)
	if err != nil {
		t.Fatalf("Failed to verify token: %v", err)
	}

	if claims.UserID != "u1" {
		t.Errorf("Expected userId u1, got %s", claims.UserID)
	}
	if claims.Name != "Alice" {
		t.Errorf("Expected name Alice, got %s", claims.Name)
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	manager := NewJWTManager("test-secret")

	if _, err := manager.VerifyToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	manager := NewJWTManager("test-secret")

	if _, err := manager.VerifyToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret")
	other := NewJWTManager("other-secret")

	token, err := manager.GenerateToken("u1", "Alice", time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := other.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.GenerateToken("u1", "Alice", -time.Minute)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := manager.VerifyToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyTokenWithoutUserID(t *testing.T) {
	secret := []byte("test-secret")

	// userId 클레임이 없는 토큰
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name": "Alice",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	manager := NewJWTManager("test-secret")
	if _, err := manager.VerifyToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for missing userId, got %v", err)
	}
}

func TestVerifyTokenWrongSigningMethod(t *testing.T) {
	// HMAC이 아닌 방식으로 서명된 토큰은 거부
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "u1",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	manager := NewJWTManager("test-secret")
	if _, err := manager.VerifyToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for none algorithm, got %v", err)
	}
}
