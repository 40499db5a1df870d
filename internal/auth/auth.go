package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v4"

	"github.com/andymarkow/gamevault/internal/domain/users"
)

var ErrTokenClaimsInvalid = errors.New("token claims are invalid")

type JWTAuth struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration
}

// Claims carry the user id in the subject and the account role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

func NewJWTAuth(secret []byte, opts ...Option) *JWTAuth {
	a := &JWTAuth{
		secret:   secret,
		tokenTTL: 24 * time.Hour,
		issuer:   "gamevault",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

type Option func(a *JWTAuth)

func WithIssuer(issuer string) Option {
	return func(a *JWTAuth) {
		a.issuer = issuer
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(a *JWTAuth) {
		a.tokenTTL = ttl
	}
}

// CreateJWTString signs a token for the given principal.
func (a *JWTAuth) CreateJWTString(p users.Principal) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
		Role: p.Role.String(),
	})

	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return tokenString, nil
}

// TokenAuth returns the verifier matching the tokens minted by a.
func (a *JWTAuth) TokenAuth() *jwtauth.JWTAuth {
	return jwtauth.New("HS256", a.secret, nil)
}

// PrincipalFromContext reads the principal from a token verified by the
// jwtauth middleware.
func PrincipalFromContext(ctx context.Context) (users.Principal, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return users.Principal{}, fmt.Errorf("jwtauth.FromContext: %w", err)
	}

	id, err := strconv.ParseInt(token.Subject(), 10, 64)
	if err != nil {
		return users.Principal{}, fmt.Errorf("subject %q: %w", token.Subject(), ErrTokenClaimsInvalid)
	}

	role, _ := claims["role"].(string)

	return users.Principal{ID: id, Role: users.Role(role)}, nil
}
