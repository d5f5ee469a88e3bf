// Package auth verifies bearer credentials and resolves them to a caller
// identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"medbook/backend/internal/domain"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// JWTStore is the credential store: HS256 tokens whose subject is the user
// id and whose role claim is one of the closed set of roles.
type JWTStore struct {
	secret []byte
	issuer string
	aud    string
	parser *jwt.Parser
}

func NewJWTStore(cfg JWTConfig) (*JWTStore, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: jwt secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &JWTStore{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		aud:    cfg.Audience,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Verify checks the token signature and registered claims and returns the
// caller it names.
func (s *JWTStore) Verify(ctx context.Context, token string) (domain.Actor, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Actor{}, ErrMissingToken
	}

	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return domain.Actor{UserID: userID, Role: role}, nil
}

// Issue signs a token for actor valid for ttl from now.
func (s *JWTStore) Issue(actor domain.Actor, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: string(actor.Role),
	}
	if s.aud != "" {
		claims.Audience = jwt.ClaimStrings{s.aud}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

type ctxKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(domain.Actor)
	return a, ok
}
