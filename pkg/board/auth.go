package board

import (
	"context"

	"github.com/eshaffer321/board-go/internal/auth"
	"github.com/pkg/errors"
)

const (
	sessionEndpoint = "/v1/auth/session"
	meEndpoint      = "/v1/users/me"
)

// authService implements the AuthService interface
type authService struct {
	client *Client
}

// Login creates a session. The refresh token arrives as a cookie and stays in the jar.
func (a *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	env := a.client.Post(ctx, sessionEndpoint, map[string]string{
		"email":    email,
		"password": password,
	})
	if err := checkEnvelope(env, "login"); err != nil {
		return nil, err
	}

	result := &LoginResult{}
	if env.Data.Kind == BodyJSON {
		result.AccessToken = auth.ExtractAccessToken(env.Data.JSON)

		var data struct {
			User *User `json:"user"`
		}
		if err := decodeData(env, "login", &data); err == nil {
			result.User = data.User
		}
	}

	if result.AccessToken != "" {
		a.client.tokens.SetAccessToken(result.AccessToken)
	}
	a.client.logger.Info("Logged in", "authenticated", result.AccessToken != "")

	return result, nil
}

// Logout ends the session. The local token is dropped even when the request fails.
func (a *authService) Logout(ctx context.Context) error {
	env := a.client.Delete(ctx, sessionEndpoint, nil)
	a.client.tokens.Clear()

	if err := checkEnvelope(env, "logout"); err != nil {
		return err
	}
	return nil
}

// CurrentUser retrieves the logged in user
func (a *authService) CurrentUser(ctx context.Context) (*User, error) {
	var data struct {
		User *User `json:"user"`
	}
	if err := decodeData(a.client.Get(ctx, meEndpoint), "get current user", &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, errors.Wrap(ErrUnexpectedResponse, "failed to get current user: response has no user")
	}
	return data.User, nil
}

// CheckAuthStatus reports whether the session is usable
func (a *authService) CheckAuthStatus(ctx context.Context) *AuthStatus {
	user, err := a.CurrentUser(ctx)
	if err != nil {
		a.client.logger.Debug("Auth status check failed", "error", err)
		return &AuthStatus{IsAuthenticated: false}
	}
	return &AuthStatus{IsAuthenticated: true, User: user}
}
