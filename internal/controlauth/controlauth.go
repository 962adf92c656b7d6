// Package controlauth guards the control surface (cmd/agent-controller's
// HTTP/websocket API) with a single operator credential, not a user/session
// system: one bcrypt-hashed password loaded from the environment, one JWT
// issued on successful login.
package controlauth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid operator credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingToken       = errors.New("missing bearer token")
)

// Claims is the JWT payload issued to the operator.
type Claims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

// Config holds the operator credential and signing parameters.
type Config struct {
	Username        string
	PasswordHash    string // bcrypt hash
	SecretKey       []byte
	TokenExpiration time.Duration
}

func (c Config) withDefaults() Config {
	if c.TokenExpiration <= 0 {
		c.TokenExpiration = 12 * time.Hour
	}
	return c
}

// Service issues and validates operator tokens.
type Service struct {
	config Config
}

// NewService constructs a Service. Panics if config.SecretKey is empty, the
// same nil-arg guard idiom the rest of this codebase uses at construction
// boundaries.
func NewService(config Config) *Service {
	if len(config.SecretKey) == 0 {
		panic("controlauth: SecretKey must not be empty")
	}
	return &Service{config: config.withDefaults()}
}

// Login verifies username/password against the configured operator
// credential and returns a signed token.
func (s *Service) Login(username, password string) (string, error) {
	if username != s.config.Username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.GenerateToken()
}

// GenerateToken issues a fresh token for the configured operator, bypassing
// password verification. Login calls it once the credential has been
// verified.
func (s *Service) GenerateToken() (string, error) {
	now := time.Now()
	claims := &Claims{
		Operator: s.config.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.SecretKey)
}

// ValidateToken parses and verifies tokenString, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.config.SecretKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword bcrypt-hashes password for storage in the operator's
// PasswordHash config field.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type contextKey string

const claimsKey contextKey = "controlauth_claims"

// Middleware validates the Authorization bearer token on every request,
// rejecting with 401 on failure and attaching Claims to the context on
// success.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			http.Error(w, ErrMissingToken.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := s.ValidateToken(token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the Claims attached by Middleware, if any.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}
