package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/taxdir/api/internal/models"
	"github.com/taxdir/api/internal/services"
)

func CreateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		createdUser, err := u.CreateUser(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, createdUser)
	}
}

func AuthenticateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		authResponse, err := u.AuthenticateUser(req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "message": "invalid email or password"})
			return
		}

		isProduction := os.Getenv("GIN_MODE") == "production"

		if tokenRes, ok := authResponse.(*types.TokenResponse); ok && tokenRes.AccessToken != "" {
			c.SetCookie(
				"access_token",
				tokenRes.AccessToken,
				tokenRes.ExpiresIn,
				"/",
				"", // let Gin pick current domain
				isProduction,
				true,
			)

			// Refresh token - expires in 30 days
			c.SetCookie(
				"refresh_token",
				tokenRes.RefreshToken,
				3600*24*30,
				"/",
				"",
				isProduction,
				true,
			)

			// Return user info but not tokens
			c.JSON(http.StatusOK, gin.H{
				"user": tokenRes.User,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid token response"})
	}
}

func frontendURL() string {
	if u := os.Getenv("FRONTEND_URL"); u != "" {
		return u
	}
	if os.Getenv("GIN_MODE") == "production" {
		return "https://taxdir.example.com"
	}
	return "http://localhost:3000"
}

// GoogleAuth initiates Google OAuth flow via Supabase
func GoogleAuth(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		redirectTo := c.Query("redirect_to")
		if redirectTo == "" {
			redirectTo = frontendURL() + "/auth/callback"
		}

		authURL := fmt.Sprintf("%s/auth/v1/authorize?provider=google&redirect_to=%s",
			os.Getenv("SUPABASE_URL"), redirectTo)

		c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// GoogleAuthCallback handles the callback from Google OAuth. Supabase sends
// tokens as URL fragments handled client-side; this endpoint mainly routes
// errors back to the frontend.
func GoogleAuthCallback(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		oauthErr := c.Query("error")
		errorDescription := c.Query("error_description")

		if oauthErr != "" {
			redirectURL := fmt.Sprintf("%s/auth/signin?error=%s&error_description=%s",
				frontendURL(), oauthErr, errorDescription)
			c.Redirect(http.StatusTemporaryRedirect, redirectURL)
			return
		}

		c.Redirect(http.StatusTemporaryRedirect, frontendURL()+"/auth/callback")
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		isProduction := os.Getenv("GIN_MODE") == "production"

		c.SetCookie("access_token", "", -1, "/", "", isProduction, true)
		c.SetCookie("refresh_token", "", -1, "/", "", isProduction, true)

		c.JSON(http.StatusOK, gin.H{
			"message": "Logged out successfully",
		})
	}
}
