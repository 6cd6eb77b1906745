package memory

import (
	"context"
	"sync"

	"mediamgr/internal/core/post"

	"github.com/gofrs/uuid"
)

// PostRepositoryMemory پیاده‌سازی درون‌حافظه‌ای PostRepository
type PostRepositoryMemory struct {
	mu    sync.RWMutex
	posts map[string]post.Post
	order []string
}

func NewPostRepositoryMemory() *PostRepositoryMemory {
	return &PostRepositoryMemory{posts: make(map[string]post.Post)}
}

func (repo *PostRepositoryMemory) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored := clone(*p)
	stored.ID = id
	repo.posts[id.String()] = stored
	repo.order = append(repo.order, id.String())

	out := clone(stored)
	return &out, nil
}

func (repo *PostRepositoryMemory) FindByID(ctx context.Context, id string) (*post.Post, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	p, ok := repo.posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}
	out := clone(p)
	return &out, nil
}

func (repo *PostRepositoryMemory) FindByOwner(ctx context.Context, ownerID string, status post.Status) ([]*post.Post, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	posts := []*post.Post{}
	for _, id := range repo.order {
		p := repo.posts[id]
		if p.OwnerID != ownerID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		out := clone(p)
		posts = append(posts, &out)
	}
	return posts, nil
}

func (repo *PostRepositoryMemory) UpdateFields(ctx context.Context, id string, patch post.Patch) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	p, ok := repo.posts[id]
	if !ok {
		return post.ErrNotFound
	}
	repo.posts[id] = p.Apply(patch)
	return nil
}

func clone(p post.Post) post.Post {
	if p.ScheduledTime != nil {
		t := *p.ScheduledTime
		p.ScheduledTime = &t
	}
	return p
}
