package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"studio/internal/domain/account"
)

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Token string
}

// LoginResult carries the identity behind a valid token.
type LoginResult struct {
	Name string
	Role string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Credentials []account.Credential
}

// ErrInvalidCredentials is returned for any token that matches no credential.
var ErrInvalidCredentials = errors.New("invalid access token")

// ExecuteLogin exchanges a plaintext token for the identity it grants.
// PRE: none
// POST: returns the first credential whose hash matches, or ErrInvalidCredentials
func ExecuteLogin(_ context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Token == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	for _, c := range deps.Credentials {
		if err := c.Check(input.Token); err == nil {
			slog.Info("auth_event", "event", "login_success", "name", c.Name, "role", c.Role)
			return LoginResult{Name: c.Name, Role: c.Role}, nil
		}
	}
	slog.Info("auth_event", "event", "login_failed", "reason", "no_match")
	return LoginResult{}, ErrInvalidCredentials
}
