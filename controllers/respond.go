package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"civiceye-be/i18n"
	"civiceye-be/middlewares"
	"civiceye-be/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	lang := middlewares.LangFrom(c)

	var ve *services.ValidationError
	var se *services.StorageError
	switch {
	case errors.As(err, &ve):
		body := gin.H{"error": i18n.T(lang, i18n.MsgInvalidInput), "detail": ve.Message}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, i18n.MsgIssueNotFound)})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(lang, i18n.MsgUnauthorized)})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(lang, i18n.MsgForbiddenFields)})
	case errors.As(err, &se):
		slog.Error("storage failure", "op", se.Op, "path", c.FullPath(), "err", se.Err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(lang, i18n.MsgStorageFailure)})
	default:
		slog.Error("unhandled error", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(lang, i18n.MsgInternal)})
	}
}
