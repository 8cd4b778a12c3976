package board

import (
	"context"
	"testing"
	"time"

	"github.com/eshaffer321/board-go/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPostService_List(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	response := `{
		"message": "posts retrieved",
		"data": {
			"posts": [
				{
					"post_id": 12,
					"title": "hello",
					"content": "first post",
					"image_urls": ["https://cdn.example/a.png"],
					"likes_count": 3,
					"comments_count": 1,
					"views_count": 40,
					"is_liked": true,
					"created_at": "2025-03-01T10:20:30",
					"author": {"user_id": 7, "nickname": "neo", "profileImageUrl": "https://cdn.example/neo.png"}
				}
			],
			"pagination": {"offset": 0, "limit": 10, "has_more": false}
		}
	}`

	mockTransport.On("Do", mock.Anything, request("GET", "/v1/posts/?offset=0&limit=10")).
		Return(jsonEnvelope(200, response))

	page, err := client.Posts.List(context.Background(), 0, 10)

	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	post := page.Posts[0]
	assert.Equal(t, int64(12), post.PostID)
	assert.Equal(t, "hello", post.Title)
	assert.Equal(t, []string{"https://cdn.example/a.png"}, post.ImageURLs)
	assert.Equal(t, 3, post.LikesCount)
	assert.Equal(t, 40, post.ViewsCount)
	assert.True(t, post.IsLiked)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC), post.CreatedAt.Time)
	assert.Equal(t, int64(7), post.Author.UserID)
	assert.Equal(t, "https://cdn.example/neo.png", post.Author.ProfileImageURL)
	assert.False(t, page.Pagination.HasMore)

	mockTransport.AssertExpectations(t)
}

func TestPostService_List_Defaults(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, request("GET", "/v1/posts/?offset=0&limit=10")).
		Return(jsonEnvelope(200, `{"data":{"posts":null,"pagination":{"has_more":false}}}`))

	page, err := client.Posts.List(context.Background(), -5, 0)

	require.NoError(t, err)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
	mockTransport.AssertExpectations(t)
}

func TestPostService_Get(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	response := `{
		"data": {
			"post": {"post_id": 5, "title": "t", "content": "c", "created_at": "2025-03-01T10:20:30Z", "author": {"user_id": 1, "nickname": "a"}},
			"comments": [
				{"comment_id": 9, "content": "nice", "created_at": "2025-03-02 08:00:00", "author": {"user_id": 2, "nickname": "b"}}
			]
		}
	}`
	mockTransport.On("Do", mock.Anything, request("GET", "/v1/posts/5")).Return(jsonEnvelope(200, response))

	detail, err := client.Posts.Get(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, int64(5), detail.Post.PostID)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, int64(9), detail.Comments[0].CommentID)
	assert.Equal(t, "b", detail.Comments[0].Author.Nickname)
	assert.Equal(t, 2025, detail.Comments[0].CreatedAt.Year())
	mockTransport.AssertExpectations(t)
}

func TestPostService_Get_NotFound(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, request("GET", "/v1/posts/404")).
		Return(jsonEnvelope(404, `{"message":"post not found"}`))

	detail, err := client.Posts.Get(context.Background(), 404)

	assert.Nil(t, detail)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "post not found")
	assert.False(t, IsRetryable(err))
}

func TestPostService_Create(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, mock.MatchedBy(func(r *Request) bool {
		params, ok := r.JSON.(*PostParams)
		return ok && r.Method == "POST" && r.Endpoint == "/v1/posts/" &&
			params.Title == "New" && params.Content == "Body" && len(params.ImageURLs) == 1
	})).Return(jsonEnvelope(201, `{"message":"created","data":{"post_id":31,"title":"New","content":"Body"}}`))

	post, err := client.Posts.Create(context.Background(), &PostParams{
		Title:     "New",
		Content:   "Body",
		ImageURLs: []string{"https://cdn.example/x.png"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(31), post.PostID)
	mockTransport.AssertExpectations(t)
}

func TestPostService_Create_Validation(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	_, err := client.Posts.Create(context.Background(), &PostParams{Title: "only title"})

	assert.ErrorIs(t, err, ErrInvalidRequest)
	mockTransport.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestPostService_UpdateAndDelete(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, request("PATCH", "/v1/posts/3")).
		Return(jsonEnvelope(200, `{"data":{"post":{"post_id":3,"title":"edited"}}}`))
	mockTransport.On("Do", mock.Anything, request("DELETE", "/v1/posts/3")).
		Return(jsonEnvelope(403, `{"message":"not your post"}`))

	post, err := client.Posts.Update(context.Background(), 3, &PostParams{Title: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", post.Title)

	err = client.Posts.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, ErrForbidden)
	mockTransport.AssertExpectations(t)
}

func TestPostService_LikeUnlike(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, request("POST", "/v1/posts/8/likes")).
		Return(jsonEnvelope(201, `{"data":{"likes_count":4,"is_liked":true}}`))
	mockTransport.On("Do", mock.Anything, request("DELETE", "/v1/posts/8/likes")).
		Return(transport.Decode(204, nil, nil, nil))

	liked, err := client.Posts.Like(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, &LikeResult{PostID: 8, LikesCount: 4, IsLiked: true}, liked)

	unliked, err := client.Posts.Unlike(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, unliked.IsLiked)
	assert.Equal(t, int64(8), unliked.PostID)
	mockTransport.AssertExpectations(t)
}

func TestPostService_UploadImage(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, mock.MatchedBy(func(r *Request) bool {
		return r.Endpoint == "/v1/posts/image" && r.Form != nil &&
			len(r.Form.Files) == 1 && r.Form.Files[0].Field == "file"
	})).Return(jsonEnvelope(201, `{"message":"uploaded","data":"https://cdn.example/p.png"}`))

	url, err := client.Posts.UploadImage(context.Background(), "p.png", []byte("png"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/p.png", url)

	_, err = client.Posts.UploadImage(context.Background(), "empty.png", nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	mockTransport.AssertExpectations(t)
}

func TestPager(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, request("GET", "/v1/posts/?offset=0&limit=2")).
		Return(jsonEnvelope(200, `{"data":{"posts":[{"post_id":5},{"post_id":4}],"pagination":{"has_more":true}}}`)).Once()
	// a new post arrived, pushing post 4 onto the second page
	mockTransport.On("Do", mock.Anything, request("GET", "/v1/posts/?offset=2&limit=2")).
		Return(jsonEnvelope(200, `{"data":{"posts":[{"post_id":4},{"post_id":3}],"pagination":{"has_more":false}}}`)).Once()

	pager := client.Posts.Pager(2)
	posts, err := pager.All(context.Background())

	require.NoError(t, err)
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.PostID)
	}
	assert.Equal(t, []int64{5, 4, 3}, ids)
	assert.False(t, pager.HasMore())

	next, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.Empty(t, next)
	mockTransport.AssertExpectations(t)
}

func TestPager_ErrorKeepsPosition(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, request("GET", "/v1/posts/?offset=0&limit=10")).
		Return(transport.NetworkFailure()).Once()
	mockTransport.On("Do", mock.Anything, request("GET", "/v1/posts/?offset=0&limit=10")).
		Return(jsonEnvelope(200, `{"data":{"posts":[{"post_id":1}],"pagination":{"has_more":false}}}`)).Once()

	pager := client.Posts.Pager(0)

	_, err := pager.Next(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, IsRetryable(err))
	assert.True(t, pager.HasMore())

	posts, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	mockTransport.AssertExpectations(t)
}
