package routes

import (
	"civiceye-be/controllers"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the officer authentication routes
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController, gate gin.HandlerFunc) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", ac.LoginOfficer)
		auth.POST("/logout", ac.LogoutOfficer)
		auth.GET("/me", gate, ac.GetMe)
	}
}
