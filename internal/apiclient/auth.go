// Package apiclient provides HTTP communication with the Plume API.
package apiclient

import (
	"context"
	"errors"

	"github.com/plumehq/plume-go/internal/core/domain"
)

// credentialsBody is the login request payload.
type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registrationBody is the registration request payload.
type registrationBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse is the shared login/registration response shape.
type authResponse struct {
	User    *domain.User `json:"user"`
	Session struct {
		AccessToken string `json:"access_token"`
	} `json:"session"`
}

// Me fetches the user record the given token identifies.
//
// Every failure — rejected token, unreachable server, malformed body — is
// reported as a session-expired error: the caller's only recovery is to
// drop the credential, so finer distinctions would not change behavior.
func (c *Client) Me(ctx context.Context, tok string) (*domain.User, error) {
	var user domain.User
	if err := c.get(ctx, "/auth/me", tok, &user); err != nil {
		return nil, domain.ErrSessionExpired.WithCause(err)
	}
	if user.ID == "" {
		return nil, domain.ErrSessionExpired.WithDetails("identity response missing user id")
	}
	return &user, nil
}

// Login exchanges credentials for a user record and a fresh token.
// Rejections carry the server's message; transport failures degrade to a
// generic authentication error so callers have one error type to render.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	var resp authResponse
	err := c.post(ctx, "/auth/login", credentialsBody{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, "", asAuthenticationError(err)
	}
	if resp.User == nil || resp.Session.AccessToken == "" {
		return nil, "", domain.ErrAuthentication.WithDetails("login response missing user or token")
	}
	return resp.User, resp.Session.AccessToken, nil
}

// Register creates an account. A successful registration also returns a
// live token: registration implies login.
func (c *Client) Register(ctx context.Context, email, username, password string) (*domain.User, string, error) {
	var resp authResponse
	err := c.post(ctx, "/auth/register", registrationBody{
		Email:    email,
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, "", asAuthenticationError(err)
	}
	if resp.User == nil || resp.Session.AccessToken == "" {
		return nil, "", domain.ErrAuthentication.WithDetails("registration response missing user or token")
	}
	return resp.User, resp.Session.AccessToken, nil
}

// asAuthenticationError folds any login/register failure into
// ErrAuthentication, preserving the server message when there is one.
func asAuthenticationError(err error) error {
	if errors.Is(err, domain.ErrTransport) {
		return domain.ErrAuthentication.
			WithDetails("unable to reach the server, try again").
			WithCause(err)
	}
	var de *domain.DomainError
	if errors.As(err, &de) && de.Details != "" {
		return domain.ErrAuthentication.WithDetails(de.Details).WithCause(err)
	}
	return domain.ErrAuthentication.WithCause(err)
}
