package middlewares

import (
	"net/http"

	"civiceye-be/i18n"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps the request body at max bytes. Requests that declare a
// larger Content-Length are refused before any of the body is read.
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": i18n.T(LangFrom(c), i18n.MsgTooLarge)})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}
