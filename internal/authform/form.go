// Package authform holds the sign-in / sign-up form state and its local
// validation rules.
package authform

import (
	"context"
	"fmt"
	"strings"

	"github.com/ihildy/weekhours/internal/api"
)

type Mode int

const (
	SignIn Mode = iota
	SignUp
)

func (m Mode) String() string {
	if m == SignUp {
		return "sign-up"
	}
	return "sign-in"
}

const MinSignUpPasswordLength = 8

const (
	msgLoginFailed    = "Login failed. Please check your username and password."
	msgRegisterFailed = "Registration failed. Username might already be taken."
)

// Authenticator is the remote side of the form.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (api.User, error)
	Register(ctx context.Context, username, email, password string) (api.User, error)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError is a remote sign-in or sign-up failure.
type AuthError struct {
	Mode    Mode
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

type Form struct {
	Mode     Mode
	Username string
	Email    string
	Password string

	// Message is the inline validation message from the last submit.
	Message string
}

// Toggle switches between sign-in and sign-up, dropping the message and the
// typed password.
func (f *Form) Toggle() {
	if f.Mode == SignIn {
		f.Mode = SignUp
	} else {
		f.Mode = SignIn
	}
	f.Message = ""
	f.Password = ""
}

// Validate applies the rules in order and returns the first failure.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.Username) == "" {
		return &ValidationError{Field: "username", Message: "Username is required"}
	}
	password := strings.TrimSpace(f.Password)
	if password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	if f.Mode != SignUp {
		return nil
	}
	if len([]rune(password)) < MinSignUpPasswordLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters", MinSignUpPasswordLength)}
	}
	email := strings.TrimSpace(f.Email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "Email is required for sign up"}
	}
	if !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Message: "Please enter a valid email"}
	}
	return nil
}

// Submit validates locally and, only if that passes, signs in or registers.
// Remote failures are not retried.
func (f *Form) Submit(ctx context.Context, authn Authenticator) (api.User, error) {
	f.Message = ""
	if err := f.Validate(); err != nil {
		f.Message = err.Error()
		return api.User{}, err
	}

	username := strings.TrimSpace(f.Username)
	password := strings.TrimSpace(f.Password)
	if f.Mode == SignUp {
		user, err := authn.Register(ctx, username, strings.TrimSpace(f.Email), password)
		if err != nil {
			return api.User{}, &AuthError{Mode: SignUp, Message: msgRegisterFailed, Err: err}
		}
		return user, nil
	}

	user, err := authn.Login(ctx, username, password)
	if err != nil {
		return api.User{}, &AuthError{Mode: SignIn, Message: msgLoginFailed, Err: err}
	}
	return user, nil
}

// FieldValidator returns a per-field check usable by interactive inputs. It
// runs the same rules as Validate but only reports failures on the named
// field.
func (f *Form) FieldValidator(field string) func(string) error {
	return func(value string) error {
		candidate := *f
		candidate.Username, candidate.Password, candidate.Email = "x", "xxxxxxxx", "x@x"
		switch field {
		case "username":
			candidate.Username = value
		case "password":
			candidate.Password = value
		case "email":
			candidate.Email = value
		}
		err := candidate.Validate()
		if ve, ok := err.(*ValidationError); ok && ve.Field == field {
			return ve
		}
		return nil
	}
}
