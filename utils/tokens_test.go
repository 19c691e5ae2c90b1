package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func TestNewManager_RejectsEmptyKey(t *testing.T) {
	if _, err := NewManager(""); err == nil {
		t.Fatal("expected error for empty signing key")
	}
}

func TestNewAccessToken_CarriesUserAndRole(t *testing.T) {
	m, err := NewManager("test-signing-key")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	signed, err := m.NewAccessToken(7, "staff", time.Hour)
	if err != nil {
		t.Fatalf("new access token: %v", err)
	}

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte("test-signing-key"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse signed token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not a map")
	}
	if got := claims["user_id"].(float64); got != 7 {
		t.Errorf("user_id claim mismatch: %v", got)
	}
	if got := claims["role"].(string); got != "staff" {
		t.Errorf("role claim mismatch: %v", got)
	}
	exp := int64(claims["exp"].(float64))
	if exp <= time.Now().Unix() {
		t.Errorf("token already expired: %d", exp)
	}
}

func TestNewAccessToken_RejectsWrongKey(t *testing.T) {
	m, err := NewManager("right-key")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	signed, err := m.NewAccessToken(1, "admin", time.Hour)
	if err != nil {
		t.Fatalf("new access token: %v", err)
	}

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong-key"), nil
	})
	if err == nil && token.Valid {
		t.Fatal("token must not verify under a different key")
	}
}

func TestNewRefreshToken_IsRandomHex(t *testing.T) {
	m, err := NewManager("test-signing-key")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	first, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}
	second, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}

	if len(first) != 64 {
		t.Errorf("refresh token length mismatch: %d", len(first))
	}
	if first == second {
		t.Error("refresh tokens must not repeat")
	}
}
