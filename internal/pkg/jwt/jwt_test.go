package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	employeeID := "emp-1"
	token, expiresAt, err := svc.GenerateAccessToken("user-1", &employeeID, "comp-1", "employee")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if expiresAt <= time.Now().Unix() {
		t.Errorf("expiresAt %d is not in the future", expiresAt)
	}

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	claims := decoded.PrivateClaims()
	for key, want := range map[string]string{
		"user_id":     "user-1",
		"employee_id": "emp-1",
		"company_id":  "comp-1",
		"role":        "employee",
		"type":        "access",
	} {
		if got := claims[key]; got != want {
			t.Errorf("claim %s = %v, want %q", key, got, want)
		}
	}
}

func TestGenerateAccessTokenOmitsEmployeeIDWhenNil(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, _, err := svc.GenerateAccessToken("user-1", nil, "comp-1", "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if _, ok := decoded.PrivateClaims()["employee_id"]; ok {
		t.Error("employee_id claim present, want omitted")
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	minter := NewJWTService("test-secret", "1h")
	verifier := NewJWTService("another-secret", "1h")

	token, _, err := minter.GenerateAccessToken("user-1", nil, "comp-1", "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := jwtauth.VerifyToken(verifier.JWTAuth(), token); err == nil {
		t.Error("VerifyToken accepted a token signed with a different secret")
	}
}

func TestGenerateAccessTokenRejectsBadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "not-a-duration")
	if _, _, err := svc.GenerateAccessToken("user-1", nil, "comp-1", "admin"); err == nil {
		t.Error("expected error for malformed expiration duration")
	}
}
