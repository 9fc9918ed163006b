package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"civicreporter-be/models"
)

// respondError maps a repository error onto the HTTP response. Store
// failures are logged and reported with the generic failure message.
func respondError(c *gin.Context, err error, notFound, failure string) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	default:
		slog.Error(failure, "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}
