package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	postapp "mediamgr/internal/core/post/service"
	postPort "mediamgr/internal/ports/post"

	"github.com/gin-gonic/gin"
)

type ContentController struct{ pc PostUseCase }

func NewContentController(pc PostUseCase) *ContentController { return &ContentController{pc: pc} }

func (ctl *ContentController) Generate(c *gin.Context) {
	var req struct {
		Theme        string `json:"theme" binding:"required"`
		IncludeImage *bool  `json:"includeImage"`
		IncludeVideo *bool  `json:"includeVideo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Theme is required"})
		return
	}
	uid, ok := userID(c)
	if !ok {
		return
	}

	opts := postapp.DefaultGenerateOptions()
	if req.IncludeImage != nil {
		opts.IncludeImage = *req.IncludeImage
	}
	if req.IncludeVideo != nil {
		opts.IncludeVideo = *req.IncludeVideo
	}

	p, err := ctl.pc.GeneratePost(c.Request.Context(), req.Theme, uid, opts)
	if err != nil {
		respondError(c, err, "Failed to generate content")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": postPort.ToDTO(p)})
}

func (ctl *ContentController) CreateManual(c *gin.Context) {
	var req struct {
		Theme    string `json:"theme"`
		Text     string `json:"text" binding:"required"`
		ImageURL string `json:"imageUrl" binding:"omitempty,url"`
		VideoURL string `json:"videoUrl" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input"})
		return
	}
	uid, ok := userID(c)
	if !ok {
		return
	}

	p, err := ctl.pc.CreateManualPost(c.Request.Context(), uid, postapp.ManualPost{
		Theme:    req.Theme,
		Text:     req.Text,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
	})
	if err != nil {
		respondError(c, err, "Failed to create manual post")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": postPort.ToDTO(p)})
}

func (ctl *ContentController) ListPending(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	posts, err := ctl.pc.GetPendingPosts(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "Failed to fetch pending content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": postPort.ToDTOs(posts)})
}

func (ctl *ContentController) ListAll(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	posts, err := ctl.pc.GetAllPosts(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "Failed to fetch content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": postPort.ToDTOs(posts)})
}

func (ctl *ContentController) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	p, err := ctl.pc.GetPost(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondError(c, err, "Failed to fetch content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": postPort.ToDTO(p)})
}

func (ctl *ContentController) Approve(c *gin.Context) {
	var req struct {
		ScheduledTime *time.Time `json:"scheduledTime"`
	}
	// بدنه خالی مجاز است (طول صفر یا chunked بدون داده)
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "scheduledTime must be RFC3339"})
			return
		}
	}
	uid, ok := userID(c)
	if !ok {
		return
	}

	p, err := ctl.pc.ApprovePost(c.Request.Context(), c.Param("id"), uid, req.ScheduledTime)
	if err != nil {
		respondError(c, err, "Failed to approve content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": postPort.ToDTO(p)})
}

func (ctl *ContentController) Reject(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := ctl.pc.RejectPost(c.Request.Context(), c.Param("id"), uid); err != nil {
		respondError(c, err, "Failed to reject content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Content rejected successfully"})
}
