package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"civiceye-be/i18n"
	"civiceye-be/middlewares"
	"civiceye-be/store"
	authUtils "civiceye-be/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	officers   store.OfficerStore
	jwtSecret  string
	tokenTTL   time.Duration
	production bool
	domain     string
}

func NewAuthController(officers store.OfficerStore, jwtSecret string, tokenTTL time.Duration, production bool, domain string) *AuthController {
	return &AuthController{
		officers:   officers,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		production: production,
		domain:     domain,
	}
}

// LoginOfficer exchanges officer credentials for a bearer token
func (ac *AuthController) LoginOfficer(c *gin.Context) {
	lang := middlewares.LangFrom(c)

	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, i18n.MsgInvalidInput), "detail": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	officer, err := ac.officers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("error looking up officer", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(lang, i18n.MsgStorageFailure)})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(lang, i18n.MsgInvalidCredential)})
		return
	}

	if !officer.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(lang, i18n.MsgInvalidCredential)})
		return
	}

	token, err := authUtils.GenerateToken(officer.ID.Hex(), officer.Role, ac.jwtSecret, ac.tokenTTL)
	if err != nil {
		slog.Error("error generating token", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(lang, i18n.MsgInternal)})
		return
	}

	// For production, don't set domain to allow cross-origin cookies
	domain := ac.domain
	if ac.production {
		domain = ""
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    token,
		MaxAge:   int(ac.tokenTTL.Seconds()),
		Path:     "/",
		Domain:   domain,
		Secure:   ac.production,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"officer": officer,
	})
}

// GetMe retrieves the authenticated officer's profile
func (ac *AuthController) GetMe(c *gin.Context) {
	lang := middlewares.LangFrom(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	officer, err := ac.officers.FindByID(ctx, c.GetString(middlewares.OfficerIDKey))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, i18n.MsgOfficerNotFound)})
			return
		}
		slog.Error("error loading officer", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(lang, i18n.MsgStorageFailure)})
		return
	}

	c.JSON(http.StatusOK, officer)
}

// LogoutOfficer clears the auth_token cookie
func (ac *AuthController) LogoutOfficer(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middlewares.AuthCookie, "", -1, "/", ac.domain, ac.production, true)
	c.JSON(http.StatusOK, gin.H{"message": i18n.T(middlewares.LangFrom(c), i18n.MsgLoggedOut)})
}
