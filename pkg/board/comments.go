package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// commentService implements the CommentService interface
type commentService struct {
	client *Client
}

func commentsEndpoint(postID int64) string {
	return fmt.Sprintf("/v1/posts/%d/comments", postID)
}

func commentEndpoint(postID, commentID int64) string {
	return fmt.Sprintf("/v1/posts/%d/comments/%d", postID, commentID)
}

// Create adds a comment to a post
func (s *commentService) Create(ctx context.Context, postID int64, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "comment content is required")
	}

	env := s.client.Post(ctx, commentsEndpoint(postID), map[string]string{"content": content})
	return s.decodeComment(env, postID, content, "create comment")
}

// Update edits a comment
func (s *commentService) Update(ctx context.Context, postID, commentID int64, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "comment content is required")
	}

	env := s.client.Put(ctx, commentEndpoint(postID, commentID), map[string]string{"content": content})
	comment, err := s.decodeComment(env, postID, content, "update comment")
	if err != nil {
		return nil, err
	}
	if comment.CommentID == 0 {
		comment.CommentID = commentID
	}
	return comment, nil
}

// Delete removes a comment
func (s *commentService) Delete(ctx context.Context, postID, commentID int64) error {
	return checkEnvelope(s.client.Delete(ctx, commentEndpoint(postID, commentID), nil), "delete comment")
}

func (s *commentService) decodeComment(env *Envelope, postID int64, content, action string) (*Comment, error) {
	var comment Comment
	if err := decodeItem(env, action, "comment", &comment); err != nil {
		if !env.OK || !errors.Is(err, ErrUnexpectedResponse) {
			return nil, err
		}
		comment = Comment{Content: content}
	}
	if comment.PostID == 0 {
		comment.PostID = postID
	}
	return &comment, nil
}
