package auth

import (
	"errors"
	"fmt"
)

// ErrLoginFailed is the single failure callers see for unknown accounts and wrong passwords.
var ErrLoginFailed = errors.New("login failed")

var (
	ErrIdentityNotFound = fmt.Errorf("%w: identity not found", ErrLoginFailed)
	ErrBadCredentials   = fmt.Errorf("%w: invalid credentials", ErrLoginFailed)
	ErrLoginThrottled   = errors.New("too many failed login attempts")
)
