package board

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const (
	usersEndpoint         = "/v1/users"
	passwordEndpoint      = "/v1/users/me/password"
	profileImageEndpoint  = "/v1/users/profile/image"
	checkEmailEndpoint    = "/v1/users/check-email"
	checkNicknameEndpoint = "/v1/users/check-nickname"
)

// userService implements the UserService interface
type userService struct {
	client *Client
}

// Signup registers a new user as multipart/form-data
func (s *userService) Signup(ctx context.Context, params *SignupParams) (*User, error) {
	if params == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "signup params are required")
	}

	form := NewMultipart().
		AddField("email", params.Email).
		AddField("password", params.Password).
		AddField("nickname", params.Nickname)
	if len(params.ProfileImage) > 0 {
		filename := params.ProfileImageFilename
		if filename == "" {
			filename = "profile"
		}
		form.AddFile("profile_image", filename, params.ProfileImage)
	}

	env := s.client.PostMultipart(ctx, usersEndpoint, form)

	var user User
	if err := decodeItem(env, "sign up", "user", &user); err != nil {
		// some deployments answer 201 without a body
		if env.OK && errors.Is(err, ErrUnexpectedResponse) {
			return &User{Email: params.Email, Nickname: params.Nickname}, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile patches the current user
func (s *userService) UpdateProfile(ctx context.Context, params *UpdateProfileParams) (*User, error) {
	if params == nil || (params.Nickname == "" && params.ProfileImageURL == "") {
		return nil, errors.Wrap(ErrInvalidRequest, "nothing to update")
	}

	env := s.client.Patch(ctx, meEndpoint, params)

	var user User
	if err := decodeItem(env, "update profile", "user", &user); err != nil {
		if env.OK && errors.Is(err, ErrUnexpectedResponse) {
			return &User{Nickname: params.Nickname, ProfileImage: params.ProfileImageURL}, nil
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword sets a new password
func (s *userService) ChangePassword(ctx context.Context, newPassword, newPasswordConfirm string) error {
	env := s.client.Put(ctx, passwordEndpoint, map[string]string{
		"new_password":         newPassword,
		"new_password_confirm": newPasswordConfirm,
	})
	return checkEnvelope(env, "change password")
}

// Withdraw deletes the account. The access token is dropped on success.
func (s *userService) Withdraw(ctx context.Context, password string) error {
	env := s.client.Delete(ctx, meEndpoint, map[string]interface{}{
		"password": password,
		"agree":    true,
	})
	if err := checkEnvelope(env, "withdraw"); err != nil {
		return err
	}
	s.client.tokens.Clear()
	return nil
}

// UploadProfileImage uploads an image for use as a profile picture
func (s *userService) UploadProfileImage(ctx context.Context, filename string, content []byte) (string, error) {
	return uploadImage(ctx, s.client, profileImageEndpoint, filename, content, "upload profile image")
}

// CheckEmail reports whether email is available. A 409 means it is taken.
func (s *userService) CheckEmail(ctx context.Context, email string) (bool, error) {
	return s.checkAvailable(ctx, checkEmailEndpoint, "email", email)
}

// CheckNickname reports whether nickname is available. A 409 means it is taken.
func (s *userService) CheckNickname(ctx context.Context, nickname string) (bool, error) {
	return s.checkAvailable(ctx, checkNicknameEndpoint, "nickname", nickname)
}

func (s *userService) checkAvailable(ctx context.Context, endpoint, key, value string) (bool, error) {
	q := url.Values{}
	q.Set(key, value)

	// availability checks are anonymous; a 401 here is not an expired session
	env := s.client.Get(ctx, endpoint+"?"+q.Encode(), WithoutAuthRecovery())
	if env.Status == http.StatusConflict {
		return false, nil
	}
	if err := checkEnvelope(env, "check "+key); err != nil {
		return false, err
	}

	var data struct {
		Available *bool `json:"available"`
	}
	if err := decodeData(env, "check "+key, &data); err == nil && data.Available != nil {
		return *data.Available, nil
	}
	return true, nil
}

// uploadImage posts content as the "file" field and returns the URL in data
func uploadImage(ctx context.Context, c *Client, endpoint, filename string, content []byte, action string) (string, error) {
	if len(content) == 0 {
		return "", errors.Wrap(ErrInvalidRequest, "image content is empty")
	}

	env := c.PostMultipart(ctx, endpoint, NewMultipart().AddFile("file", filename, content))

	var imageURL string
	if err := decodeItem(env, action, "url", &imageURL); err != nil {
		return "", err
	}
	if imageURL == "" {
		return "", errors.Wrapf(ErrUnexpectedResponse, "failed to %s: empty url", action)
	}
	return imageURL, nil
}
