package httpapi

import (
	"errors"
	"net/http"

	"mediamgr/internal/adapters/httpapi/middleware"
	"mediamgr/internal/core/campaign"
	"mediamgr/internal/core/post"

	"github.com/gin-gonic/gin"
)

// respondError خطاهای هسته را به پاسخ HTTP تبدیل می‌کند
func respondError(c *gin.Context, err error, fallback string) {
	var verr *campaign.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "invalid campaign", "errors": verr.Errors})
	case errors.Is(err, post.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "post not found"})
	case errors.Is(err, post.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "unauthorized"})
	case errors.Is(err, post.ErrInvalidContent):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, post.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fallback})
	}
}

func userID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not found in context"})
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not found in context"})
		return "", false
	}
	return id, true
}
