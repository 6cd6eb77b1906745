package post

import (
	"context"
	"time"

	"mediamgr/internal/core/post"
)

// PostRepository پورت ذخیره‌سازی پست‌ها.
// Implementations assign the ID on Create and return post.ErrNotFound for missing records.
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id string) (*post.Post, error)
	// FindByOwner filters by owner and, when status is non-empty, by status. No ordering is implied.
	FindByOwner(ctx context.Context, ownerID string, status post.Status) ([]*post.Post, error)
	UpdateFields(ctx context.Context, id string, patch post.Patch) error
}

// DTOها برای UseCase
type PostDTO struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	Theme         string     `json:"theme"`
	Text          string     `json:"text"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	VideoURL      string     `json:"videoUrl,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
}

func ToDTO(p *post.Post) *PostDTO {
	return &PostDTO{
		ID:            p.ID.String(),
		OwnerID:       p.OwnerID,
		Theme:         p.Theme,
		Text:          p.Text,
		ImageURL:      p.ImageURL,
		VideoURL:      p.VideoURL,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		ScheduledTime: p.ScheduledTime,
	}
}

func ToDTOs(posts []*post.Post) []*PostDTO {
	dtos := make([]*PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, ToDTO(p))
	}
	return dtos
}
