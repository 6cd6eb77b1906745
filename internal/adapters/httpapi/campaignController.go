package httpapi

import (
	"net/http"
	"time"

	"mediamgr/internal/core/campaign"

	"github.com/gin-gonic/gin"
)

type CampaignController struct{ cc CampaignUseCase }

func NewCampaignController(cc CampaignUseCase) *CampaignController {
	return &CampaignController{cc: cc}
}

type campaignRequest struct {
	Theme        string `json:"theme"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	PostsPerDay  int    `json:"postsPerDay"`
	TotalPosts   int    `json:"totalPosts"`
	IncludeImage *bool  `json:"includeImage"`
	IncludeVideo *bool  `json:"includeVideo"`
}

// parseDate accepts a calendar date (2006-01-02) or an RFC3339 timestamp. Empty means absent.
func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func (req *campaignRequest) dates(c *gin.Context) (*time.Time, *time.Time, bool) {
	start, ok := parseDate(req.StartDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid startDate"})
		return nil, nil, false
	}
	end, ok := parseDate(req.EndDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid endDate"})
		return nil, nil, false
	}
	return start, end, true
}

func (ctl *CampaignController) Preview(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input"})
		return
	}
	start, end, ok := req.dates(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": ctl.cc.Preview(start, end, req.PostsPerDay, req.TotalPosts)})
}

func (ctl *CampaignController) Create(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input"})
		return
	}
	start, end, ok := req.dates(c)
	if !ok {
		return
	}
	uid, ok := userID(c)
	if !ok {
		return
	}

	cmp := campaign.Campaign{
		OwnerID:      uid,
		Theme:        req.Theme,
		StartDate:    start,
		EndDate:      end,
		PostsPerDay:  req.PostsPerDay,
		TotalPosts:   req.TotalPosts,
		IncludeImage: true,
	}
	if req.IncludeImage != nil {
		cmp.IncludeImage = *req.IncludeImage
	}
	if req.IncludeVideo != nil {
		cmp.IncludeVideo = *req.IncludeVideo
	}

	plan, err := ctl.cc.ExpandCampaign(c.Request.Context(), cmp)
	if err != nil {
		respondError(c, err, "Failed to create campaign")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": toPlanDTO(plan)})
}
