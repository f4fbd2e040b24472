package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/apperror"
)

// respondError writes the error envelope. Unexpected errors are logged
// and reported as a generic 500 so internals never reach the client.
func respondError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	if appErr, ok := apperror.From(err); ok {
		c.JSON(appErr.Status, gin.H{"error": gin.H{
			"message": appErr.Message,
			"code":    appErr.Code,
		}})
		return
	}

	logger.Errorw("unhandled error", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
		"message": "Internal server error",
		"code":    apperror.CodeInternal,
	}})
}

func respondValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{
		"message": message,
		"code":    apperror.CodeValidation,
	}})
}

func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{
		"message": "User not authenticated",
		"code":    apperror.CodeUnauthorized,
	}})
}
