package jwtverify

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/crudik/internal/common/clock"
)

const emailVerifiedClaim = "email_verified"

var (
	ErrMalformedToken       = errors.New("malformed access token")
	ErrUnexpectedAlgorithm  = errors.New("unexpected signing algorithm")
	ErrMissingEmailVerified = errors.New("email_verified claim is missing or not a boolean")
)

// Verifier decodes access tokens issued by the upstream identity provider.
// Signatures are not checked; exp and nbf are.
type Verifier struct {
	algorithm string
	parser    *jwt.Parser
	validator *jwt.Validator
}

func NewVerifier(algorithm string, c clock.Clock) *Verifier {
	return &Verifier{
		algorithm: algorithm,
		parser:    jwt.NewParser(jwt.WithValidMethods([]string{algorithm})),
		validator: jwt.NewValidator(jwt.WithTimeFunc(c.Now)),
	}
}

func (v *Verifier) Claims(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, _, err := v.parser.ParseUnverified(raw, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if token.Method == nil || token.Method.Alg() != v.algorithm {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedAlgorithm, token.Header["alg"])
	}
	if err := v.validator.Validate(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// EmailVerified returns the boolean email_verified claim of raw.
func (v *Verifier) EmailVerified(raw string) (bool, error) {
	claims, err := v.Claims(raw)
	if err != nil {
		return false, err
	}
	verified, ok := claims[emailVerifiedClaim].(bool)
	if !ok {
		return false, ErrMissingEmailVerified
	}
	return verified, nil
}
