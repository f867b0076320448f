package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"caltrack-baseline/internal/api/models"
)

// Recovery converts panics into a structured 500 so a bad request cannot
// take the server down mid-sweep.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		message := "an unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		} else if err, ok := recovered.(error); ok {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
		c.Abort()
	})
}
