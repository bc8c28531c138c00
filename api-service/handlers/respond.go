package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"auditgate-backend/shared/apperr"
	"auditgate-backend/shared/database/models"
)

// respondError maps the shared error taxonomy to HTTP status codes.
func respondError(ctx *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage})
	case apperr.IsForbidden(err):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrSystemTemplateProtected):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		var ve *apperr.ValidationError
		var ce *apperr.ConflictError
		if errors.As(err, &ve) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
			return
		}
		if errors.As(err, &ce) {
			ctx.JSON(http.StatusConflict, gin.H{"error": ce.Message})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": err.Error(),
		})
	}
}

// parseUUIDParam parses a path parameter as UUID, writing the 400
// response itself on failure.
func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid " + name + " format",
			"message": err.Error(),
		})
		return uuid.Nil, false
	}
	return id, true
}

func respondSuccess(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondList(ctx *gin.Context, items interface{}, pagination interface{}) {
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"pagination": pagination,
		},
	})
}
