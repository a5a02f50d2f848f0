package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidState = errors.New("invalid oauth state")

const (
	stateAudience = "mail-oauth"
	stateTTL      = 10 * time.Minute
)

// StateSigner binds a user id to the OAuth round trip. The state is a
// short-lived HS256 token whose subject is the user id.
type StateSigner struct {
	secret []byte
	now    func() time.Time
}

func NewStateSigner(secret string) *StateSigner {
	return &StateSigner{secret: []byte(secret), now: time.Now}
}

// WithClock replaces the time source used for issuing and checking states.
func (s *StateSigner) WithClock(now func() time.Time) *StateSigner {
	s.now = now
	return s
}

// Sign returns a state for userID. It is empty only if signing fails, which
// Verify then rejects.
func (s *StateSigner) Sign(userID string) string {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		Audience:  jwt.ClaimStrings{stateAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return ""
	}
	return signed
}

// Verify returns the user id from an unexpired state produced by Sign.
func (s *StateSigner) Verify(state string) (string, error) {
	if state == "" {
		return "", ErrInvalidState
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(state, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(stateAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.Subject == "" {
		return "", ErrInvalidState
	}
	return claims.Subject, nil
}
