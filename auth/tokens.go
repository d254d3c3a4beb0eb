package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser       = "user"
	RoleGuest      = "guest"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
	RoleMarketer   = "marketer"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the session carried by every API token.
type Claims struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	MarketerID string `json:"marketer_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool { return c.Role == RoleAdmin || c.Role == RoleSuperAdmin }

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), now: time.Now}
}

var ttlByRole = map[string]time.Duration{
	RoleUser:       24 * time.Hour,
	RoleGuest:      24 * time.Hour,
	RoleMarketer:   12 * time.Hour,
	RoleAdmin:      60 * 24 * time.Hour,
	RoleSuperAdmin: 60 * 24 * time.Hour,
}

func (t *Tokens) Issue(c Claims) (string, error) {
	ttl, ok := ttlByRole[c.Role]
	if !ok {
		return "", fmt.Errorf("unknown role %q", c.Role)
	}
	now := t.now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	c.Subject = c.UserID

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) Parse(raw string) (*Claims, error) {
	var c Claims
	token, err := jwt.ParseWithClaims(raw, &c, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if c.UserID == "" || c.Role == "" {
		return nil, ErrInvalidToken
	}
	return &c, nil
}
