package token

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/learnly/course-platform/internal/core/domain"
)

// ActivationService issues and verifies activation tokens: signed envelopes
// holding a pending registration plus a 4-digit verification code. The
// service keeps no state; expiry is enforced purely by the signature's exp
// claim, so an issued token cannot be revoked early.
type ActivationService struct {
	secret string
	expiry time.Duration
}

func NewActivationService(cfg Config) *ActivationService {
	return &ActivationService{secret: cfg.ActivationSecret, expiry: cfg.ActivationExpiry}
}

// Issue signs an activation token for the pending user and returns it with
// the code the user must echo back. The code travels by mail, the token in
// the registration response; activation needs both.
func (s *ActivationService) Issue(pending domain.PendingUser) (tokenStr, code string, err error) {
	code, err = activationCode()
	if err != nil {
		return "", "", fmt.Errorf("generate activation code: %w", err)
	}

	payload, err := json.Marshal(pending)
	if err != nil {
		return "", "", fmt.Errorf("encode pending user: %w", err)
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"user": string(payload),
		"code": code,
		"exp":  now.Add(s.expiry).Unix(),
		"iat":  now.Unix(),
	}
	tokenStr, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", "", fmt.Errorf("sign activation token: %w", err)
	}
	return tokenStr, code, nil
}

// Verify checks the token's signature and expiry and compares the supplied
// code against the embedded one. On success it yields the pending user
// exactly as it was issued.
func (s *ActivationService) Verify(tokenStr, suppliedCode string) (*domain.PendingUser, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrActivationExpired
		}
		return nil, domain.ErrActivationInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrActivationInvalid
	}

	code, _ := claims["code"].(string)
	if code == "" || code != suppliedCode {
		return nil, domain.ErrActivationCodeMismatch
	}

	payload, _ := claims["user"].(string)
	var pending domain.PendingUser
	if err := json.Unmarshal([]byte(payload), &pending); err != nil {
		return nil, domain.ErrActivationInvalid
	}
	return &pending, nil
}

// activationCode returns a uniformly random 4-digit code, "1000"–"9999".
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", 1000+n.Int64()), nil
}
