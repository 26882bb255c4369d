package authform

import (
	"context"
	"errors"
	"testing"

	"github.com/ihildy/weekhours/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	loginCalls    int
	registerCalls int
	gotUsername   string
	gotEmail      string
	gotPassword   string
	err           error
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (api.User, error) {
	f.loginCalls++
	f.gotUsername, f.gotPassword = username, password
	if f.err != nil {
		return api.User{}, f.err
	}
	return api.User{ID: 1, Username: username}, nil
}

func (f *fakeAuth) Register(_ context.Context, username, email, password string) (api.User, error) {
	f.registerCalls++
	f.gotUsername, f.gotEmail, f.gotPassword = username, email, password
	if f.err != nil {
		return api.User{}, f.err
	}
	return api.User{ID: 2, Username: username, Email: email}, nil
}

func TestValidateRuleOrder(t *testing.T) {
	cases := []struct {
		name  string
		form  Form
		field string
		msg   string
	}{
		{"blank username", Form{Mode: SignIn, Username: "  ", Password: "x"}, "username", "Username is required"},
		{"blank password", Form{Mode: SignIn, Username: "ada", Password: "   "}, "password", "Password is required"},
		{"short sign-up password", Form{Mode: SignUp, Username: "ada", Password: "short", Email: "a@b"}, "password", "Password must be at least 8 characters"},
		{"missing email", Form{Mode: SignUp, Username: "ada", Password: "longenough"}, "email", "Email is required for sign up"},
		{"email without at", Form{Mode: SignUp, Username: "ada", Password: "longenough", Email: "ada.example.com"}, "email", "Please enter a valid email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.form.Validate()
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, tc.msg, ve.Message)
		})
	}
}

func TestSignInAllowsShortPasswordAndNoEmail(t *testing.T) {
	f := Form{Mode: SignIn, Username: "ada", Password: "abc"}
	assert.NoError(t, f.Validate())
}

func TestSignUpBadEmailRejectedBeforeNetwork(t *testing.T) {
	authn := &fakeAuth{}
	f := Form{Mode: SignUp, Username: "ada", Email: "not-an-email", Password: "longenough"}

	_, err := f.Submit(context.Background(), authn)
	require.Error(t, err)
	assert.Equal(t, "Please enter a valid email", f.Message)
	assert.Zero(t, authn.registerCalls)
	assert.Zero(t, authn.loginCalls)
}

func TestSubmitTrimsAndDelegates(t *testing.T) {
	authn := &fakeAuth{}
	f := Form{Mode: SignUp, Username: " ada ", Email: " ada@example.com ", Password: " longenough "}

	user, err := f.Submit(context.Background(), authn)
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.ID)
	assert.Equal(t, 1, authn.registerCalls)
	assert.Equal(t, "ada", authn.gotUsername)
	assert.Equal(t, "ada@example.com", authn.gotEmail)
	assert.Equal(t, "longenough", authn.gotPassword)
	assert.Empty(t, f.Message)
}

func TestSubmitRemoteFailure(t *testing.T) {
	cause := errors.New("login failed")
	authn := &fakeAuth{err: cause}
	f := Form{Mode: SignIn, Username: "ada", Password: "pw"}

	_, err := f.Submit(context.Background(), authn)
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Login failed. Please check your username and password.", authErr.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, authn.loginCalls)
}

func TestToggleClearsPasswordAndMessage(t *testing.T) {
	f := Form{Mode: SignIn, Username: "ada", Password: "pw", Message: "Password is required"}
	f.Toggle()
	assert.Equal(t, SignUp, f.Mode)
	assert.Empty(t, f.Password)
	assert.Empty(t, f.Message)
	assert.Equal(t, "ada", f.Username)
	f.Toggle()
	assert.Equal(t, SignIn, f.Mode)
}

func TestFieldValidator(t *testing.T) {
	f := Form{Mode: SignUp}
	assert.Error(t, f.FieldValidator("email")("nope"))
	assert.NoError(t, f.FieldValidator("email")("a@b.c"))
	assert.Error(t, f.FieldValidator("password")("short"))
	assert.NoError(t, f.FieldValidator("username")("ada"))

	signIn := Form{Mode: SignIn}
	assert.NoError(t, signIn.FieldValidator("password")("short"))
	assert.Error(t, signIn.FieldValidator("username")(""))
}
