package campaignapp

import (
	"context"
	"time"

	"mediamgr/internal/core/campaign"
	postEntity "mediamgr/internal/core/post"
	postapp "mediamgr/internal/core/post/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// generationConcurrency caps in-flight provider calls per campaign.
const generationConcurrency = 3

// PostGenerator is the lifecycle operation a campaign expands into.
type PostGenerator interface {
	GeneratePost(ctx context.Context, theme, ownerID string, opts postapp.GenerateOptions) (*postEntity.Post, error)
}

type CampaignService struct {
	Posts  PostGenerator
	Logger *zap.Logger
}

func NewCampaignService(posts PostGenerator, logger *zap.Logger) *CampaignService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignService{Posts: posts, Logger: logger}
}

type Preview struct {
	DurationDays int                   `json:"durationDays"`
	TotalPosts   int                   `json:"totalPosts"`
	Errors       []campaign.FieldError `json:"errors"`
}

// Preview محاسبه تعداد پست‌ها و خطاهای اعتبارسنجی بدون ساخت پست
func (s *CampaignService) Preview(start, end *time.Time, postsPerDay, totalPosts int) Preview {
	p := Preview{TotalPosts: campaign.TotalPosts(start, end, postsPerDay)}
	if start != nil && end != nil {
		p.DurationDays = campaign.DurationDays(*start, *end)
	}
	if totalPosts == 0 {
		totalPosts = p.TotalPosts
	}
	p.Errors = campaign.Validate(start, end, postsPerDay, totalPosts)
	if p.Errors == nil {
		p.Errors = []campaign.FieldError{}
	}
	return p
}

type ScheduledDraft struct {
	Slot time.Time        `json:"slot"`
	Post *postEntity.Post `json:"post"`
}

type Plan struct {
	Drafts []ScheduledDraft `json:"posts"`
}

// ExpandCampaign enforces the campaign limits and generates one pending post per slot.
// Expansion stops at the first failure. Posts created before it stay in the store; the returned plan lists them.
func (s *CampaignService) ExpandCampaign(ctx context.Context, c campaign.Campaign) (*Plan, error) {
	total, err := c.Validate()
	if err != nil {
		return nil, err
	}

	days := campaign.DurationDays(*c.StartDate, *c.EndDate)
	slots := campaign.Slots(c.StartDate.UTC(), days, c.PostsPerDay, total)

	s.Logger.Info("expanding campaign",
		zap.String("ownerID", c.OwnerID),
		zap.Int("days", days),
		zap.Int("postsPerDay", c.PostsPerDay),
		zap.Int("posts", len(slots)))

	opts := postapp.GenerateOptions{IncludeImage: c.IncludeImage, IncludeVideo: c.IncludeVideo}
	created := make([]*postEntity.Post, len(slots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generationConcurrency)
	for i := range slots {
		g.Go(func() error {
			// بعد از اولین خطا پست جدیدی ساخته نمی‌شود
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := s.Posts.GeneratePost(gctx, c.Theme, c.OwnerID, opts)
			if err != nil {
				return err
			}
			created[i] = p
			return nil
		})
	}
	err = g.Wait()

	plan := &Plan{Drafts: make([]ScheduledDraft, 0, len(slots))}
	for i, p := range created {
		if p == nil {
			continue
		}
		plan.Drafts = append(plan.Drafts, ScheduledDraft{Slot: slots[i], Post: p})
	}
	if err != nil {
		s.Logger.Error("campaign expansion stopped", zap.Int("created", len(plan.Drafts)), zap.Error(err))
		return plan, err
	}
	return plan, nil
}
