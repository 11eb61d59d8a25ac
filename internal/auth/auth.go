// Package auth gates the admin API. Credentials are verified against the
// external Supabase (GoTrue) auth service; this package never implements the
// auth protocol itself. Successful sign-ins are cached as opaque session
// tokens in Redis so that subsequent admin requests avoid a round trip to
// the auth service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	supabase "github.com/nedpals/supabase-go"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidCredentials is returned when the auth service rejects a sign-in.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrNoSession is returned when a token has no live session.
var ErrNoSession = errors.New("no active session")

// Principal identifies an authenticated admin actor.
type Principal struct {
	Email string `json:"email"`
}

// Service verifies credentials and manages cached sessions.
type Service struct {
	client     *supabase.Client
	rdb        *redis.Client
	sessionTTL time.Duration
}

// NewService wires the Supabase client and the Redis session cache.
func NewService(supabaseURL, supabaseKey string, rdb *redis.Client, sessionTTL time.Duration) *Service {
	return &Service{
		client:     supabase.CreateClient(supabaseURL, supabaseKey),
		rdb:        rdb,
		sessionTTL: sessionTTL,
	}
}

func sessionKey(token string) string {
	return "session:" + token
}

// SignIn delegates to the auth service and, on success, mints an opaque
// session token cached with a TTL. The token is what the admin client sends
// on every subsequent request.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	details, err := s.client.Auth.SignIn(ctx, supabase.UserCredentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return "", signInError(err)
	}

	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(token), details.User.Email, s.sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("cache session: %w", err)
	}
	return token, nil
}

// signInError separates a credential rejection from an auth service outage.
// Only a 4xx response from the service means bad credentials; a network
// failure or a 5xx surfaces as an upstream error so callers report it as
// such instead of blaming the user.
func signInError(err error) error {
	var apiErr *supabase.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Code < 500 {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return fmt.Errorf("auth service sign-in: %w", err)
}

// SignOut drops the cached session. Signing out an unknown token is not an
// error; the end state is the same.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("drop session: %w", err)
	}
	return nil
}

// Principal resolves a session token to the signed-in actor.
func (s *Service) Principal(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	email, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	return &Principal{Email: email}, nil
}
