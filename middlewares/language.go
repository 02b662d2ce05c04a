package middlewares

import (
	"civiceye-be/i18n"

	"github.com/gin-gonic/gin"
)

const langKey = "lang"

// Language resolves the response language from ?lang= or Accept-Language and
// stores it on the request context.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i18n.Match(c.Query("lang"), c.GetHeader("Accept-Language"))
		c.Set(langKey, lang)
		c.Header("Content-Language", string(lang))
		c.Next()
	}
}

// LangFrom returns the language chosen for this request, English if unset.
func LangFrom(c *gin.Context) i18n.Lang {
	if v, ok := c.Get(langKey); ok {
		if lang, ok := v.(i18n.Lang); ok {
			return lang
		}
	}
	return i18n.English
}
