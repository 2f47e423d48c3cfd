// Package auth implements issuing and verifying the bearer tokens that
// assert user identity between requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pashield/pashield/internal/common"
)

// Issuer mints and verifies signed, time-bounded bearer tokens. The token
// subject is the user's email; validity is determined entirely by the
// signature and the embedded expiry, no server-side session state.
type Issuer struct {
	secretKey []byte
	method    jwt.SigningMethod
	validity  time.Duration
}

// NewIssuer builds an Issuer from the configured HMAC secret, signing
// algorithm name (HS256, HS384 or HS512) and token lifetime. An unknown
// algorithm name is an error: startup must fail rather than fall back.
func NewIssuer(secretKey string, algorithm string, validity time.Duration) (*Issuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm: %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %q", algorithm)
	}
	return &Issuer{secretKey: []byte(secretKey), method: method, validity: validity}, nil
}

// Issue returns a signed token for the subject, expiring after the
// configured validity counted from now.
func (i *Issuer) Issue(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(i.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
	})

	tokenString, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the signature and expiry and returns the token subject.
// Expired tokens yield common.ErrTokenExpired; malformed tokens, bad
// signatures and tokens signed with a different method yield
// common.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secretKey, nil
	}, jwt.WithValidMethods([]string{i.method.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
