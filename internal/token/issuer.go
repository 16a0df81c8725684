// Package token mints and verifies the three signed token classes the
// platform uses: short-lived access tokens, long-lived refresh tokens, and
// activation tokens carrying a pending registration. Each class has its own
// symmetric secret and expiry window, injected once at construction.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/learnly/course-platform/internal/core/domain"
)

// Config holds the signing secrets and expiry windows for every token
// class. Expiries are durations derived from seconds-based configuration.
type Config struct {
	AccessSecret     string
	AccessExpiry     time.Duration
	RefreshSecret    string
	RefreshExpiry    time.Duration
	ActivationSecret string
	ActivationExpiry time.Duration
}

// AccessClaims is the identity an access token carries.
type AccessClaims struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

// Issuer mints and verifies access and refresh tokens (HS256).
type Issuer struct {
	cfg Config
}

func NewIssuer(cfg Config) *Issuer {
	return &Issuer{cfg: cfg}
}

// IssueAccessToken signs a short-lived token carrying the user's identity
// claims. The returned time is the absolute expiry deadline.
func (i *Issuer) IssueAccessToken(user *domain.User) (string, time.Time, error) {
	exp := time.Now().UTC().Add(i.cfg.AccessExpiry)
	claims := jwt.MapClaims{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.AccessSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, exp, nil
}

// IssueRefreshToken signs a long-lived token carrying only the user id.
func (i *Issuer) IssueRefreshToken(userID string) (string, time.Time, error) {
	exp := time.Now().UTC().Add(i.cfg.RefreshExpiry)
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.RefreshSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, exp, nil
}

// VerifyAccess validates an access token and returns its identity claims.
// Expiry and signature failures map to the two distinct domain errors.
func (i *Issuer) VerifyAccess(raw string) (*AccessClaims, error) {
	claims, err := verify(raw, i.cfg.AccessSecret)
	if err != nil {
		return nil, err
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, domain.ErrTokenInvalid
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &AccessClaims{UserID: id, Name: name, Email: email, Role: role}, nil
}

// VerifyRefresh validates a refresh token and returns the embedded user id.
func (i *Issuer) VerifyRefresh(raw string) (string, error) {
	claims, err := verify(raw, i.cfg.RefreshSecret)
	if err != nil {
		return "", err
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return "", domain.ErrTokenInvalid
	}
	return id, nil
}

// verify parses an HS256 token and reduces the library's error surface to
// ErrTokenExpired vs ErrTokenInvalid.
func verify(raw, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
