package response

import (
	"errors"
	"net/http"

	"ambeauty/internal/domain"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// FromError writes the envelope for a service error. Unknown errors are
// attached to the gin context for the request logger and reported as 500
// without their message.
func FromError(c *gin.Context, err error) {
	status, code := Classify(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		Error(c, status, code, "Internal server error")
		return
	}

	message := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	Error(c, status, code, message)
}

// Classify maps an error to its HTTP status and stable machine-readable code.
func Classify(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case domain.ErrConflict:
		return http.StatusConflict, "CONFLICT"
	case domain.ErrNotFound:
		return http.StatusNotFound, "NOT_FOUND"
	case domain.ErrForbidden:
		return http.StatusForbidden, "FORBIDDEN"
	case domain.ErrUnauthenticated:
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case domain.ErrInvalidTransition:
		return http.StatusBadRequest, "INVALID_TRANSITION"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
