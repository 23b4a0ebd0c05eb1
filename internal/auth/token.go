package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

type Claims struct {
	jwt.RegisteredClaims

	Role string `json:"role"`
	Name string `json:"name,omitempty"`
}

// Principal is the verified caller attached to a request.
type Principal struct {
	ID   string
	Role string
	Name string
}

// DisplayName is used as the author of notes and audit rows.
func (p Principal) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Issue signs an HS256 token for subject with the given role.
func Issue(secret, subject, role, name string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("missing secret")
	}
	if subject == "" {
		return "", fmt.Errorf("missing subject")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
		Name: name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verify checks signature, expiry and subject and returns the caller.
func Verify(tokenString, secret string, now time.Time) (*Principal, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject in token")
	}
	switch claims.Role {
	case RoleVendor, RoleAdmin:
	default:
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}

	return &Principal{ID: claims.Subject, Role: claims.Role, Name: claims.Name}, nil
}
