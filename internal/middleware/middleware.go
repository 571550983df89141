package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/taxdir/api/internal/helpers"
	"github.com/taxdir/api/internal/services"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", clientIP,
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			// Don't return error details in production
			c.JSON(500, gin.H{
				"error":      "Internal server error",
				"request_id": requestID,
			})
		}
	}
}

// AuthMiddleware validates the access token cookie against the Supabase JWKS,
// transparently refreshing an expired session when a refresh token is present,
// then loads the profile and stores enhanced claims on the context.
func AuthMiddleware(userService *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized access",
				"error":   "JWT token not found in cookie",
			})
			c.Abort()
			return
		}

		claims, err := helpers.ValidateToken(token)
		if err != nil {
			// Token validation failed, try to refresh
			refreshToken, refreshErr := c.Cookie("refresh_token")
			if refreshErr != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   err.Error(),
				})
				c.Abort()
				return
			}

			refreshResponse, refreshErr := userService.RefreshToken(refreshToken)
			if refreshErr != nil {
				logger.Error("Token refresh failed", "error", refreshErr)
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Token expired and refresh failed",
				})
				c.Abort()
				return
			}

			isProduction := os.Getenv("GIN_MODE") == "production"
			if tokenRes, ok := refreshResponse.(*types.TokenResponse); ok && tokenRes.AccessToken != "" {
				logger.Info("Token refreshed successfully",
					"user_id", tokenRes.User.ID,
					"expires_in", tokenRes.ExpiresIn,
				)
				c.SetCookie(
					"access_token",
					tokenRes.AccessToken,
					tokenRes.ExpiresIn,
					"/",
					"", // let Gin pick current domain
					isProduction,
					true,
				)
				c.SetCookie(
					"refresh_token",
					tokenRes.RefreshToken,
					3600*24*30, // 30 days
					"/",
					"",
					isProduction,
					true,
				)
				token = tokenRes.AccessToken
				claims, err = helpers.ValidateToken(token)
				if err != nil {
					c.JSON(http.StatusUnauthorized, gin.H{
						"message": "Unauthorized access",
						"error":   "Refreshed token validation failed",
					})
					c.Abort()
					return
				}
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Invalid refresh response",
				})
				c.Abort()
				return
			}
		}

		// Fetch profile data so downstream handlers see the directory role,
		// not just the raw JWT.
		var profileRole, username, fullname, avatarURL string
		var isVerified bool
		var createdAt time.Time
		userID, parseErr := uuid.Parse(claims.Subject)
		if parseErr != nil {
			logger.Error("Invalid user ID in token", "user_id", claims.Subject, "error", parseErr)
			profileRole = "guest"
		} else {
			user, err := userService.GetUser(userID, token)
			if err != nil {
				logger.Info("Profile not found, using default role",
					"user_id", claims.Subject,
					"error", err,
				)
				profileRole = "guest"
			} else {
				profileRole = user.Role
				if profileRole == "" {
					profileRole = "guest"
					logger.Info("Empty role in profile, defaulting to guest",
						"user_id", claims.Subject,
					)
				}
				username = user.Username
				fullname = user.FullName
				avatarURL = user.AvatarURL
				isVerified = user.IsVerified
				createdAt = user.CreatedAt
			}
		}

		enhancedClaims := &helpers.EnhancedClaims{
			CustomClaims: claims,
			Role:         profileRole,
			UserID:       claims.Subject,
			Username:     username,
			Email:        claims.Email,
			Fullname:     fullname,
			AvatarURL:    avatarURL,
			IsVerified:   isVerified,
			CreatedAt:    createdAt.Format(time.RFC3339),
		}

		c.Set("user", enhancedClaims)
		c.Next()
	}
}
