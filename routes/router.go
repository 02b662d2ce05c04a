package routes

import (
	"net/http"
	"time"

	"civiceye-be/controllers"
	"civiceye-be/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options wires the router's dependencies.
type Options struct {
	Issues      *controllers.IssueController
	Auth        *controllers.AuthController
	JWTSecret   string
	RateLimiter gin.HandlerFunc
	UploadDir   string
	CORSOrigins []string
	// MaxMultipartMemory bounds the in-memory part of multipart parsing.
	MaxMultipartMemory int64
	// MaxCreateBytes caps the whole issue creation body; zero disables it.
	MaxCreateBytes int64
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) *gin.Engine {
	r := gin.Default()
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}

	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	r.Use(middlewares.Language())

	gate := middlewares.GovernmentGate(opts.JWTSecret)
	var createGuards []gin.HandlerFunc
	if opts.MaxCreateBytes > 0 {
		createGuards = append(createGuards, middlewares.BodyLimit(opts.MaxCreateBytes))
	}
	if opts.RateLimiter != nil {
		createGuards = append(createGuards, opts.RateLimiter)
	}
	IssueRoutes(r, opts.Issues, gate, createGuards...)
	AuthRoutes(r, opts.Auth, gate)

	r.GET("/api/i18n/labels", controllers.GetLabels)
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Language"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// Credentials cannot be combined with a literal wildcard origin.
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
