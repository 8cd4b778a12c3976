package board

import (
	"context"
)

// AuthService handles login state
type AuthService interface {
	// Login creates a session and keeps the returned access token in memory
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Logout ends the session and drops the access token
	Logout(ctx context.Context) error

	// CurrentUser retrieves the logged in user
	CurrentUser(ctx context.Context) (*User, error)

	// CheckAuthStatus never fails; any error reads as logged out
	CheckAuthStatus(ctx context.Context) *AuthStatus
}

// UserService handles account operations
type UserService interface {
	// Signup registers a new user, optionally with a profile image
	Signup(ctx context.Context, params *SignupParams) (*User, error)

	// UpdateProfile changes the nickname and/or profile image URL
	UpdateProfile(ctx context.Context, params *UpdateProfileParams) (*User, error)

	// ChangePassword sets a new password
	ChangePassword(ctx context.Context, newPassword, newPasswordConfirm string) error

	// Withdraw deletes the account after confirming the password
	Withdraw(ctx context.Context, password string) error

	// UploadProfileImage uploads an image and returns its URL
	UploadProfileImage(ctx context.Context, filename string, content []byte) (string, error)

	// CheckEmail reports whether an email is still available
	CheckEmail(ctx context.Context, email string) (bool, error)

	// CheckNickname reports whether a nickname is still available
	CheckNickname(ctx context.Context, nickname string) (bool, error)
}

// PostService handles posts and likes
type PostService interface {
	// List retrieves one page of posts
	List(ctx context.Context, offset, limit int) (*PostPage, error)

	// Pager iterates pages of posts
	Pager(limit int) *Pager

	// Get retrieves a post with its comments
	Get(ctx context.Context, postID int64) (*PostDetail, error)

	// Create creates a new post
	Create(ctx context.Context, params *PostParams) (*Post, error)

	// Update patches an existing post
	Update(ctx context.Context, postID int64, params *PostParams) (*Post, error)

	// Delete deletes a post
	Delete(ctx context.Context, postID int64) error

	// Like likes a post
	Like(ctx context.Context, postID int64) (*LikeResult, error)

	// Unlike removes a like
	Unlike(ctx context.Context, postID int64) (*LikeResult, error)

	// UploadImage uploads a post image and returns its URL
	UploadImage(ctx context.Context, filename string, content []byte) (string, error)
}

// CommentService handles comments on posts
type CommentService interface {
	// Create adds a comment to a post
	Create(ctx context.Context, postID int64, content string) (*Comment, error)

	// Update edits a comment
	Update(ctx context.Context, postID, commentID int64, content string) (*Comment, error)

	// Delete removes a comment
	Delete(ctx context.Context, postID, commentID int64) error
}
