package postapp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	postEntity "mediamgr/internal/core/post"
	postPort "mediamgr/internal/ports/post"
	schedulePort "mediamgr/internal/ports/schedule"

	"go.uber.org/zap"
)

// Generator is the part of the generation orchestrator the lifecycle needs.
type Generator interface {
	GenerateCaption(ctx context.Context, theme string) string
	GenerateImage(ctx context.Context, theme string) string
	GenerateVideo(ctx context.Context, theme string) string
}

// PostService ماشین حالت چرخه عمر پست
type PostService struct {
	PostRepository postPort.PostRepository
	Generator      Generator
	PublishQueue   schedulePort.PublishQueue // اختیاری
	Logger         *zap.Logger
	Now            func() time.Time
}

func NewPostService(
	postRepo postPort.PostRepository,
	generator Generator,
	publishQueue schedulePort.PublishQueue,
	logger *zap.Logger,
) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		PostRepository: postRepo,
		Generator:      generator,
		PublishQueue:   publishQueue,
		Logger:         logger,
		Now:            time.Now,
	}
}

type GenerateOptions struct {
	IncludeImage bool
	IncludeVideo bool
}

func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{IncludeImage: true}
}

// GeneratePost تولید محتوا و ذخیره پست در وضعیت pending
func (s *PostService) GeneratePost(ctx context.Context, theme, ownerID string, opts GenerateOptions) (*postEntity.Post, error) {
	p := &postEntity.Post{
		OwnerID: ownerID,
		Theme:   theme,
		Text:    s.Generator.GenerateCaption(ctx, theme),
	}
	if opts.IncludeImage {
		p.ImageURL = s.Generator.GenerateImage(ctx, theme)
	}
	if opts.IncludeVideo {
		p.VideoURL = s.Generator.GenerateVideo(ctx, theme)
	}
	return s.insert(ctx, p)
}

type ManualPost struct {
	Theme    string
	Text     string
	ImageURL string
	VideoURL string
}

// CreateManualPost stores user-authored content in the same review queue as generated posts.
func (s *PostService) CreateManualPost(ctx context.Context, ownerID string, in ManualPost) (*postEntity.Post, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", postEntity.ErrInvalidContent)
	}
	p := &postEntity.Post{
		OwnerID:  ownerID,
		Theme:    in.Theme,
		Text:     in.Text,
		ImageURL: in.ImageURL,
		VideoURL: in.VideoURL,
	}
	return s.insert(ctx, p)
}

func (s *PostService) insert(ctx context.Context, p *postEntity.Post) (*postEntity.Post, error) {
	p.Status = postEntity.StatusPending
	p.CreatedAt = s.Now().UTC()

	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w: create post: %v", postEntity.ErrPersistence, err)
	}
	s.Logger.Debug("post created", zap.String("postID", created.ID.String()), zap.String("ownerID", created.OwnerID))
	return created, nil
}

// GetPost returns a post only to its owner.
func (s *PostService) GetPost(ctx context.Context, postID, requesterID string) (*postEntity.Post, error) {
	return s.fetchOwned(ctx, postID, requesterID)
}

// ApprovePost pending → approved. scheduledTime is stored only when non-nil.
func (s *PostService) ApprovePost(ctx context.Context, postID, requesterID string, scheduledTime *time.Time) (*postEntity.Post, error) {
	status := postEntity.StatusApproved
	patch := postEntity.Patch{Status: &status}
	if scheduledTime != nil {
		t := scheduledTime.UTC()
		patch.ScheduledTime = &t
	}

	p, err := s.transition(ctx, postID, requesterID, patch)
	if err != nil {
		return nil, err
	}

	s.enqueue(ctx, p)
	return p, nil
}

// RejectPost pending → rejected.
func (s *PostService) RejectPost(ctx context.Context, postID, requesterID string) error {
	status := postEntity.StatusRejected
	_, err := s.transition(ctx, postID, requesterID, postEntity.Patch{Status: &status})
	return err
}

// MarkPublished approved → published. Only the publisher calls this, so there is no owner check.
func (s *PostService) MarkPublished(ctx context.Context, postID string) (*postEntity.Post, error) {
	current, err := s.fetch(ctx, postID)
	if err != nil {
		return nil, err
	}
	status := postEntity.StatusPublished
	return s.apply(ctx, current, postEntity.Patch{Status: &status})
}

func (s *PostService) GetPendingPosts(ctx context.Context, ownerID string) ([]*postEntity.Post, error) {
	return s.list(ctx, ownerID, postEntity.StatusPending)
}

func (s *PostService) GetAllPosts(ctx context.Context, ownerID string) ([]*postEntity.Post, error) {
	return s.list(ctx, ownerID, "")
}

func (s *PostService) list(ctx context.Context, ownerID string, status postEntity.Status) ([]*postEntity.Post, error) {
	posts, err := s.PostRepository.FindByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("%w: list posts: %v", postEntity.ErrPersistence, err)
	}
	SortNewestFirst(posts)
	return posts, nil
}

// SortNewestFirst orders posts by CreatedAt descending; ties keep store order.
func SortNewestFirst(posts []*postEntity.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func (s *PostService) transition(ctx context.Context, postID, requesterID string, patch postEntity.Patch) (*postEntity.Post, error) {
	current, err := s.fetchOwned(ctx, postID, requesterID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, current, patch)
}

// apply writes the patch and re-reads the post so callers never see a merged stale copy.
func (s *PostService) apply(ctx context.Context, current *postEntity.Post, patch postEntity.Patch) (*postEntity.Post, error) {
	if patch.Status != nil && !postEntity.CanTransition(current.Status, *patch.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", postEntity.ErrInvalidTransition, current.Status, *patch.Status)
	}

	id := current.ID.String()
	if err := s.PostRepository.UpdateFields(ctx, id, patch); err != nil {
		if errors.Is(err, postEntity.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: update post %s: %v", postEntity.ErrPersistence, id, err)
	}
	return s.fetch(ctx, id)
}

func (s *PostService) fetchOwned(ctx context.Context, postID, requesterID string) (*postEntity.Post, error) {
	p, err := s.fetch(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != requesterID {
		return nil, postEntity.ErrUnauthorized
	}
	return p, nil
}

func (s *PostService) fetch(ctx context.Context, postID string) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, postEntity.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: find post %s: %v", postEntity.ErrPersistence, postID, err)
	}
	return p, nil
}

// enqueue hands the approved post to the publish schedule. Failures are logged only.
func (s *PostService) enqueue(ctx context.Context, p *postEntity.Post) {
	if s.PublishQueue == nil {
		return
	}
	at := s.Now().UTC()
	if p.ScheduledTime != nil {
		at = *p.ScheduledTime
	}
	if err := s.PublishQueue.Schedule(ctx, p.ID.String(), at); err != nil {
		s.Logger.Warn("could not schedule post for publishing", zap.String("postID", p.ID.String()), zap.Error(err))
	}
}
