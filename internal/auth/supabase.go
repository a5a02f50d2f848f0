package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken means the bearer token failed verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// IdentityVerifier resolves a bearer token to a user id.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

const (
	supabaseAudience = "authenticated"
	clockLeeway      = 30 * time.Second
)

// SupabaseVerifier checks Supabase Auth access tokens locally against the
// project's JWT secret. The user id is the token subject.
type SupabaseVerifier struct {
	parser *jwt.Parser
	secret []byte
}

// NewSupabaseVerifier expects tokens issued by {baseURL}/auth/v1 for the
// "authenticated" audience. An empty baseURL skips the issuer check.
func NewSupabaseVerifier(baseURL, jwtSecret string) *SupabaseVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(supabaseAudience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockLeeway),
	}
	if baseURL != "" {
		opts = append(opts, jwt.WithIssuer(strings.TrimRight(baseURL, "/")+"/auth/v1"))
	}
	return &SupabaseVerifier{parser: jwt.NewParser(opts...), secret: []byte(jwtSecret)}
}

func (v *SupabaseVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	var claims jwt.RegisteredClaims
	if _, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
