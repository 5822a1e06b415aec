// Package token decodes bearer tokens and materializes them into the session.
package token

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/residentportal/internal/client/session"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrUnrecognizedRole = errors.New("token carries no recognized role")
)

// Decoder extracts the claim set from a raw bearer token.
type Decoder interface {
	Decode(raw string) (session.UserData, error)
}

// UnverifiedDecoder reads the payload without checking the signature. The
// backend remains the authority on the token.
type UnverifiedDecoder struct{}

func (UnverifiedDecoder) Decode(raw string) (session.UserData, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedToken)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return session.UserData(claims), nil
}

// HMACDecoder verifies an HS256 signature and requires an unexpired exp claim.
type HMACDecoder struct {
	secret []byte
}

func NewHMACDecoder(secret string) *HMACDecoder {
	return &HMACDecoder{secret: []byte(secret)}
}

func (d *HMACDecoder) Decode(raw string) (session.UserData, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
		return d.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return session.UserData(claims), nil
}

// NewDecoder picks the verifying decoder when a secret is configured.
func NewDecoder(secret string) Decoder {
	if secret == "" {
		return UnverifiedDecoder{}
	}
	return NewHMACDecoder(secret)
}
