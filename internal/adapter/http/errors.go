package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquavi/delivery-api/internal/adapter/repo"
	domain "github.com/aquavi/delivery-api/internal/entity"
	"github.com/aquavi/delivery-api/internal/logging"
	"github.com/aquavi/delivery-api/internal/usecase"
)

// writeError maps the error taxonomy onto HTTP statuses. Store failures are
// logged with detail but surfaced generically.
func writeError(c *gin.Context, err error) {
	var ve *usecase.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "validation_failed", "field": ve.Field, "message": ve.Msg,
		})
	case errors.Is(err, usecase.ErrOrdersClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "orders_closed", "message": "we are not taking orders right now",
		})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "invalid_transition", "message": err.Error(),
		})
	case errors.Is(err, repo.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	default:
		logging.From(c).Error("request failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal_error", "message": "something went wrong, please try again",
		})
	}
}
