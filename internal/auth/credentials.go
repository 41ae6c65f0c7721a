package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Credential is the single configured login. Only the bcrypt hash of the
// password is kept in memory.
type Credential struct {
	Email string
	Name  string
	Role  string
	hash  []byte
}

func NewCredential(email, password, name, role string) (*Credential, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.New("login email and password must be set")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &Credential{Email: email, Name: name, Role: role, hash: hash}, nil
}

// Check compares the login form against the credential. Email is matched
// without regard to case.
func (c *Credential) Check(email, password string) error {
	if !strings.EqualFold(strings.TrimSpace(email), c.Email) {
		// keep timing equal to a wrong password
		_ = bcrypt.CompareHashAndPassword(c.hash, []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
