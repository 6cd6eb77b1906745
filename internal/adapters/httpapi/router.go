package httpapi

import (
	"context"
	"net/http"
	"time"

	"mediamgr/internal/adapters/httpapi/middleware"
	"mediamgr/internal/core/campaign"
	campaignapp "mediamgr/internal/core/campaign/service"
	postEntity "mediamgr/internal/core/post"
	postapp "mediamgr/internal/core/post/service"
	postPort "mediamgr/internal/ports/post"

	"github.com/gin-gonic/gin"
)

// PostUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type PostUseCase interface {
	GeneratePost(ctx context.Context, theme, ownerID string, opts postapp.GenerateOptions) (*postEntity.Post, error)
	CreateManualPost(ctx context.Context, ownerID string, in postapp.ManualPost) (*postEntity.Post, error)
	GetPost(ctx context.Context, postID, requesterID string) (*postEntity.Post, error)
	ApprovePost(ctx context.Context, postID, requesterID string, scheduledTime *time.Time) (*postEntity.Post, error)
	RejectPost(ctx context.Context, postID, requesterID string) error
	GetPendingPosts(ctx context.Context, ownerID string) ([]*postEntity.Post, error)
	GetAllPosts(ctx context.Context, ownerID string) ([]*postEntity.Post, error)
}

type CampaignUseCase interface {
	Preview(start, end *time.Time, postsPerDay, totalPosts int) campaignapp.Preview
	ExpandCampaign(ctx context.Context, c campaign.Campaign) (*campaignapp.Plan, error)
}

type draftDTO struct {
	Slot time.Time         `json:"slot"`
	Post *postPort.PostDTO `json:"post"`
}

func toPlanDTO(plan *campaignapp.Plan) gin.H {
	drafts := make([]draftDTO, 0, len(plan.Drafts))
	for _, d := range plan.Drafts {
		drafts = append(drafts, draftDTO{Slot: d.Slot, Post: postPort.ToDTO(d.Post)})
	}
	return gin.H{"posts": drafts}
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(postUC PostUseCase, campaignUC CampaignUseCase, jwtSecret []byte) *gin.Engine {
	r := gin.Default()
	cc := NewContentController(postUC)
	mc := NewCampaignController(campaignUC)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/", middleware.JWTAuthMiddleware(jwtSecret))

	content := auth.Group("/content")
	content.POST("/generate", cc.Generate)
	content.POST("/manual", cc.CreateManual)
	content.GET("/pending", cc.ListPending)
	content.GET("/all", cc.ListAll)
	content.GET("/:id", cc.Get)
	content.POST("/:id/approve", cc.Approve)
	content.POST("/:id/reject", cc.Reject)

	campaigns := auth.Group("/campaigns")
	campaigns.POST("", mc.Create)
	campaigns.POST("/preview", mc.Preview)

	return r
}
