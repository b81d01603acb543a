// Package token issues and checks the two signed token kinds used by the
// auth flow: short-lived email verification challenges and longer-lived
// session tokens. Both are HS256 JWTs signed with the same server secret and
// carry a kind discriminator so one can never be accepted as the other.
package token

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only error surfaced to callers: a bad signature,
// an expired token, a wrong code and a wrong purpose are indistinguishable
// from the outside.
var ErrInvalidToken = errors.New("invalid token")

type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeSignin Purpose = "signin"
	PurposeReset  Purpose = "reset"
)

const (
	kindVerification = "verification"
	kindSession      = "session"
)

type verificationClaims struct {
	Kind    string `json:"kind"`
	Email   string `json:"email"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
	jwtlib.RegisteredClaims
}

type SessionClaims struct {
	Kind   string `json:"kind"`
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwtlib.RegisteredClaims
}

// CreateVerificationToken embeds an email+code challenge into a signed
// self-contained token. Nothing is stored server-side; the client echoes the
// token back together with the code it received by mail.
func CreateVerificationToken(email, code string, purpose Purpose, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := verificationClaims{
		Kind:    kindVerification,
		Email:   email,
		Code:    code,
		Purpose: string(purpose),
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyVerificationToken checks signature, expiry, kind, purpose, email and
// code, in that order. Any failure collapses to ErrInvalidToken.
func VerifyVerificationToken(tokenString, email, code string, purpose Purpose, secret []byte) error {
	parsed, err := jwtlib.ParseWithClaims(tokenString, &verificationClaims{}, keyFunc(secret))
	if err != nil {
		return ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*verificationClaims)
	if !ok || !parsed.Valid {
		return ErrInvalidToken
	}
	// kind is checked before any other field is trusted
	if claims.Kind != kindVerification {
		return ErrInvalidToken
	}
	if claims.Purpose != string(purpose) {
		return ErrInvalidToken
	}
	if claims.Email != email {
		return ErrInvalidToken
	}
	if claims.Code != code {
		return ErrInvalidToken
	}
	return nil
}

// CreateSessionToken issues a bearer credential bound to a user identity.
func CreateSessionToken(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Kind:   kindSession,
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
}

func ParseSessionToken(tokenString string, secret []byte) (*SessionClaims, error) {
	parsed, err := jwtlib.ParseWithClaims(tokenString, &SessionClaims{}, keyFunc(secret))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kindSession {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func keyFunc(secret []byte) jwtlib.Keyfunc {
	return func(t *jwtlib.Token) (interface{}, error) {
		if t.Method.Alg() != jwtlib.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}
}
