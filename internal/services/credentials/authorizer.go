package credentials

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"vidpub/internal/services"
)

// EnvAccessToken names the environment variable that overrides stored tokens.
const EnvAccessToken = "VIDPUB_ACCESS_TOKEN"

var (
	// ErrAuthorizationMissing is returned when no access token is available.
	ErrAuthorizationMissing = fmt.Errorf("%w: catalog access token not configured", services.ErrConfiguration)
	// ErrTokenExpired is returned when the stored token is past its expiry.
	ErrTokenExpired = fmt.Errorf("%w: catalog access token expired", services.ErrConfiguration)
)

// Authorizer decorates outgoing catalog requests with credentials.
type Authorizer interface {
	Authorize(ctx context.Context, req *http.Request) error
}

// TokenAuthorizer applies a bearer token sourced from the environment or a Store.
type TokenAuthorizer struct {
	store Store
	now   func() time.Time
	env   func(string) (string, bool)

	mu     sync.Mutex
	cached *State
}

// Option customises TokenAuthorizer construction.
type Option func(*TokenAuthorizer)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(a *TokenAuthorizer) {
		a.now = now
	}
}

// WithEnvLookup overrides environment lookup (used in tests).
func WithEnvLookup(lookup func(string) (string, bool)) Option {
	return func(a *TokenAuthorizer) {
		a.env = lookup
	}
}

// NewTokenAuthorizer builds an authorizer backed by store.
func NewTokenAuthorizer(store Store, opts ...Option) *TokenAuthorizer {
	a := &TokenAuthorizer{
		store: store,
		now:   time.Now,
		env:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authorize sets the Authorization header on req.
func (a *TokenAuthorizer) Authorize(ctx context.Context, req *http.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	state, err := a.State()
	if err != nil {
		return err
	}
	tokenType := state.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	req.Header.Set("Authorization", tokenType+" "+state.AccessToken)
	return nil
}

// State returns the effective token state, preferring the environment override.
func (a *TokenAuthorizer) State() (State, error) {
	if value, ok := a.env(EnvAccessToken); ok && strings.TrimSpace(value) != "" {
		return State{AccessToken: strings.TrimSpace(value)}, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cached == nil {
		if a.store == nil {
			return State{}, ErrAuthorizationMissing
		}
		state, err := a.store.Load()
		if err != nil {
			return State{}, services.Wrap(services.ErrConfiguration, "credentials", "load", "Failed to load stored token", err)
		}
		a.cached = &state
	}
	state := *a.cached
	if strings.TrimSpace(state.AccessToken) == "" {
		return State{}, ErrAuthorizationMissing
	}
	if state.Expired(a.now()) {
		return State{}, fmt.Errorf("%w (expired %s)", ErrTokenExpired, state.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return state, nil
}

// Validate reports why no usable token is available, or nil.
func (a *TokenAuthorizer) Validate() error {
	_, err := a.State()
	return err
}

// Save stores a new token and replaces the cached state.
func (a *TokenAuthorizer) Save(state State) error {
	if strings.TrimSpace(state.AccessToken) == "" {
		return errors.New("access token is empty")
	}
	if a.store == nil {
		return errors.New("no credential store configured")
	}
	if err := a.store.Save(state); err != nil {
		return err
	}
	a.mu.Lock()
	a.cached = &state
	a.mu.Unlock()
	return nil
}

// Static is an Authorizer with a fixed bearer token.
type Static string

func (s Static) Authorize(_ context.Context, req *http.Request) error {
	if strings.TrimSpace(string(s)) == "" {
		return ErrAuthorizationMissing
	}
	req.Header.Set("Authorization", "Bearer "+string(s))
	return nil
}
