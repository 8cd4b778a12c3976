package board

// User represents a board member
type User struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    Timestamp `json:"created_at,omitempty"`
}

// Author is the public view of a post or comment writer
type Author struct {
	UserID          int64  `json:"user_id"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Post represents a board post
type Post struct {
	PostID        int64     `json:"post_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ImageURLs     []string  `json:"image_urls"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	ViewsCount    int       `json:"views_count"`
	IsLiked       bool      `json:"is_liked"`
	CreatedAt     Timestamp `json:"created_at"`
	UpdatedAt     Timestamp `json:"updated_at,omitempty"`
	Author        *Author   `json:"author,omitempty"`
}

// Comment represents a comment on a post
type Comment struct {
	CommentID int64     `json:"comment_id"`
	PostID    int64     `json:"post_id,omitempty"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at,omitempty"`
	Author    *Author   `json:"author,omitempty"`
}

// Pagination is the paging block of a post list
type Pagination struct {
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"total_count,omitempty"`
	HasMore    bool `json:"has_more"`
}

// PostPage is one page of the post list
type PostPage struct {
	Posts      []*Post     `json:"posts"`
	Pagination *Pagination `json:"pagination"`
}

// PostDetail is a post together with its comments
type PostDetail struct {
	Post     *Post      `json:"post"`
	Comments []*Comment `json:"comments"`
}

// LikeResult is the like state after a like or unlike
type LikeResult struct {
	PostID     int64 `json:"post_id"`
	LikesCount int   `json:"likes_count"`
	IsLiked    bool  `json:"is_liked"`
}

// LoginResult is returned by a successful login
type LoginResult struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user,omitempty"`
}

// AuthStatus is the outcome of CheckAuthStatus
type AuthStatus struct {
	IsAuthenticated bool
	User            *User
}

// SignupParams for registering a user
type SignupParams struct {
	Email    string
	Password string
	Nickname string

	// ProfileImage is optional
	ProfileImage         []byte
	ProfileImageFilename string
}

// UpdateProfileParams for changing a profile. Empty fields are left unchanged.
type UpdateProfileParams struct {
	Nickname        string `json:"nickname,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// PostParams for creating or updating a post
type PostParams struct {
	Title     string   `json:"title,omitempty"`
	Content   string   `json:"content,omitempty"`
	ImageURLs []string `json:"image_urls,omitempty"`
}
