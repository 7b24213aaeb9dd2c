package account

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used by HashToken.
const DefaultCost = 12

// MinTokenLength is the shortest accepted plaintext token.
const MinTokenLength = 12

var (
	ErrInvalidToken  = errors.New("invalid access token")
	ErrTokenTooShort = errors.New("access token must be at least 12 characters")
	ErrNameRequired  = errors.New("credential name is required")
	ErrRoleRequired  = errors.New("credential role is required")
)

// Credential is a named access token that grants a calendar role.
// Only the bcrypt hash of the token is ever held.
type Credential struct {
	Name string
	Role string
	Hash string
}

// Validate checks the credential's invariants.
// PRE: none
// POST: returns nil if Name, Role and a well-formed bcrypt Hash are present
func (c *Credential) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.Role == "" {
		return ErrRoleRequired
	}
	if _, err := bcrypt.Cost([]byte(c.Hash)); err != nil {
		return err
	}
	return nil
}

// Check compares a plaintext token against the stored hash.
// POST: returns nil on match, ErrInvalidToken otherwise
func (c *Credential) Check(token string) error {
	if token == "" || c.Hash == "" {
		return ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(token)); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// HashToken returns the bcrypt hash of a plaintext token.
// PRE: len(token) >= MinTokenLength
func HashToken(token string, cost int) (string, error) {
	if len(token) < MinTokenLength {
		return "", ErrTokenTooShort
	}
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
