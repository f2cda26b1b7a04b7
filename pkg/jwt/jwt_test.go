package jwt

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(testSecret, userID, "jane@example.com", "Jane Doe", "customer")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(testSecret, token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "jane@example.com" || claims.Role != "customer" {
		t.Errorf("claims = %s/%s, want jane@example.com/customer", claims.Email, claims.Role)
	}
	if claims.Issuer != "go-farmbasket" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), "jane@example.com", "Jane Doe", "customer")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ValidateToken([]byte("another-secret-entirely-32-bytes"), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	for _, bad := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		if _, err := ValidateToken(testSecret, bad); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ValidateToken(%q): err = %v, want ErrInvalidToken", bad, err)
		}
	}
}
