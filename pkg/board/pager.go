package board

import (
	"context"
	"sync"
)

// Pager walks the post feed page by page. Posts already returned are skipped,
// so a post that shifts across a page boundary between requests is seen once.
type Pager struct {
	service *postService
	limit   int

	mu      sync.Mutex
	offset  int
	hasMore bool
	seen    map[int64]struct{}
}

func newPager(s *postService, limit int) *Pager {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &Pager{
		service: s,
		limit:   limit,
		hasMore: true,
		seen:    make(map[int64]struct{}),
	}
}

// HasMore reports whether Next may return more posts
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Next fetches the following page. It returns an empty slice once the feed is exhausted.
// On error the position is unchanged and Next may be called again.
func (p *Pager) Next(ctx context.Context) ([]*Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.hasMore {
		return []*Post{}, nil
	}

	page, err := p.service.List(ctx, p.offset, p.limit)
	if err != nil {
		return nil, err
	}

	fresh := make([]*Post, 0, len(page.Posts))
	for _, post := range page.Posts {
		if _, dup := p.seen[post.PostID]; dup {
			continue
		}
		p.seen[post.PostID] = struct{}{}
		fresh = append(fresh, post)
	}

	p.offset += len(page.Posts)
	p.hasMore = page.Pagination != nil && page.Pagination.HasMore && len(page.Posts) > 0

	return fresh, nil
}

// All drains the pager
func (p *Pager) All(ctx context.Context) ([]*Post, error) {
	var all []*Post
	for p.HasMore() {
		posts, err := p.Next(ctx)
		if err != nil {
			return all, err
		}
		all = append(all, posts...)
	}
	return all, nil
}

// Reset starts again from the first page
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = 0
	p.hasMore = true
	p.seen = make(map[int64]struct{})
}
