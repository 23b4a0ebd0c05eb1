package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok, err := Issue("test_secret", "vendor-1", RoleVendor, "Royal Caterers", time.Hour, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	p, err := Verify(tok, "test_secret", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.ID != "vendor-1" || p.Role != RoleVendor || p.DisplayName() != "Royal Caterers" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestVerify_Expired(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok, err := Issue("s", "admin-1", RoleAdmin, "", time.Minute, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Verify(tok, "s", now.Add(2*time.Minute)); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok, _ := Issue("right", "admin-1", RoleAdmin, "", time.Minute, now)
	if _, err := Verify(tok, "wrong", now); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestVerify_UnknownRole(t *testing.T) {
	now := time.Unix(1700000000, 0)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "guest-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
		Role: "guest",
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Verify(s, "s", now); err == nil {
		t.Fatalf("expected role error")
	}
}
