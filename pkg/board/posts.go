package board

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

const (
	postsEndpoint     = "/v1/posts/"
	postImageEndpoint = "/v1/posts/image"

	// DefaultPageSize matches the feed's page size
	DefaultPageSize = 10
)

// postService implements the PostService interface
type postService struct {
	client *Client
}

func postEndpoint(postID int64) string {
	return fmt.Sprintf("/v1/posts/%d", postID)
}

// List retrieves one page of posts
func (s *postService) List(ctx context.Context, offset, limit int) (*PostPage, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	env := s.client.Get(ctx, fmt.Sprintf("%s?offset=%d&limit=%d", postsEndpoint, offset, limit))

	var page PostPage
	if err := decodeData(env, "list posts", &page); err != nil {
		return nil, err
	}
	if page.Posts == nil {
		page.Posts = []*Post{}
	}
	return &page, nil
}

// Pager iterates pages of posts
func (s *postService) Pager(limit int) *Pager {
	return newPager(s, limit)
}

// Get retrieves a post with its comments
func (s *postService) Get(ctx context.Context, postID int64) (*PostDetail, error) {
	var detail PostDetail
	if err := decodeData(s.client.Get(ctx, postEndpoint(postID)), "get post", &detail); err != nil {
		return nil, err
	}
	if detail.Post == nil {
		return nil, errors.Wrap(ErrUnexpectedResponse, "failed to get post: response has no post")
	}
	if detail.Comments == nil {
		detail.Comments = []*Comment{}
	}
	return &detail, nil
}

// Create creates a new post
func (s *postService) Create(ctx context.Context, params *PostParams) (*Post, error) {
	if params == nil || params.Title == "" || params.Content == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "title and content are required")
	}

	var post Post
	if err := decodeItem(s.client.Post(ctx, postsEndpoint, params), "create post", "post", &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update patches an existing post
func (s *postService) Update(ctx context.Context, postID int64, params *PostParams) (*Post, error) {
	if params == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "update params are required")
	}

	var post Post
	if err := decodeItem(s.client.Patch(ctx, postEndpoint(postID), params), "update post", "post", &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete deletes a post
func (s *postService) Delete(ctx context.Context, postID int64) error {
	return checkEnvelope(s.client.Delete(ctx, postEndpoint(postID), nil), "delete post")
}

// Like likes a post
func (s *postService) Like(ctx context.Context, postID int64) (*LikeResult, error) {
	env := s.client.Post(ctx, postEndpoint(postID)+"/likes", map[string]interface{}{})
	return s.likeResult(env, postID, true, "like post")
}

// Unlike removes a like
func (s *postService) Unlike(ctx context.Context, postID int64) (*LikeResult, error) {
	env := s.client.Delete(ctx, postEndpoint(postID)+"/likes", nil)
	return s.likeResult(env, postID, false, "unlike post")
}

func (s *postService) likeResult(env *Envelope, postID int64, liked bool, action string) (*LikeResult, error) {
	if err := checkEnvelope(env, action); err != nil {
		return nil, err
	}

	result := &LikeResult{PostID: postID, IsLiked: liked}
	var data struct {
		LikesCount *int  `json:"likes_count"`
		IsLiked    *bool `json:"is_liked"`
	}
	if err := decodeData(env, action, &data); err == nil {
		if data.LikesCount != nil {
			result.LikesCount = *data.LikesCount
		}
		if data.IsLiked != nil {
			result.IsLiked = *data.IsLiked
		}
	}
	return result, nil
}

// UploadImage uploads a post image and returns its URL
func (s *postService) UploadImage(ctx context.Context, filename string, content []byte) (string, error) {
	return uploadImage(ctx, s.client, postImageEndpoint, filename, content, "upload post image")
}
