package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")

	ErrSecretTooShort = errors.New("jwtx: signing secret must be at least 32 bytes")
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies tokens with a single shared secret. The service
// both mints and checks its own tokens, so symmetric signing is sufficient
// and there is no key distribution problem.
type HS256 struct {
	secret []byte
	issuer string
}

// NewHS256 builds a signer/verifier around the server secret.
func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < 32 {
		return nil, ErrSecretTooShort
	}
	return &HS256{secret: secret, issuer: issuer}, nil
}

// Sign produces a compact HS256 JWT for the given claims.
func (h *HS256) Sign(c Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(h.secret)
}

// Verify parses and validates a compact JWT, returning its claims.
// Signature, expiry, not-before and issuer are all enforced here so callers
// get a single yes/no answer.
func (h *HS256) Verify(token string) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Expiry is validated through claims.ValidateExpiry below so the
		// sentinel errors stay ours.
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return h.secret, nil
	})
	switch {
	case err == nil:
		// fallthrough to claim validation
	case errors.Is(err, ErrAlgMismatch), errors.Is(err, jwt.ErrTokenSignatureInvalid):
		if errors.Is(err, ErrAlgMismatch) {
			return Claims{}, ErrAlgMismatch
		}
		return Claims{}, ErrInvalidSig
	default:
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}

	return claims, nil
}
