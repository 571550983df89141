package handlers

import (
	"net/http"
	"strconv"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taxdir/api/internal/helpers"
	"github.com/taxdir/api/internal/models"
	"github.com/taxdir/api/internal/services"
)

// claimsFrom pulls the enhanced claims the auth middleware stored on the
// context.
func claimsFrom(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, false
	}
	claims, ok := userClaims.(*helpers.EnhancedClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return nil, false
	}
	return claims, true
}

func pagination(c *gin.Context) (offset, limit int, ok bool) {
	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
		return 0, 0, false
	}
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
		return 0, 0, false
	}
	return offset, limit, true
}

func GetUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID format"))
			return
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return
		}

		if !claims.IsOwner(userID.String()) && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		user, err := u.GetUser(userID, accessToken)
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

func UpdateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID format"))
			return
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsOwner(userID.String()) && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		// Verification fields only move through the admin endpoint.
		delete(fields, "is_verified")
		delete(fields, "verification_status")
		delete(fields, "id")

		accessToken, _ := c.Cookie("access_token")
		updated, err := u.UpdateUser(c.Request.Context(), fields, userID, accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "profile updated"))
	}
}

func DeleteUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID format"))
			return
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsOwner(userID.String()) && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		if err := u.DeleteUser(c.Request.Context(), userID, accessToken); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "user deleted"))
	}
}

// UploadAvatar pushes the image to Cloudinary and stores the resulting URL on
// the profile.
func UploadAvatar(u *services.UserService, cld *cloudinary.Cloudinary) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
			return
		}

		var req struct {
			Image string `json:"image" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		urls, err := helpers.UploadImages(c.Request.Context(), cld, []string{req.Image}, helpers.AvatarFolder)
		if err != nil || len(urls) == 0 {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("failed to upload avatar"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		avatarURL, err := u.SetAvatarURL(c.Request.Context(), userID, urls[0], accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"avatar_url": avatarURL}, "avatar updated"))
	}
}

// Directory is the public search over verified professionals.
func Directory(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := pagination(c)
		if !ok {
			return
		}

		filter := models.DirectoryFilter{
			Specialty: c.Query("specialty"),
			State:     c.Query("state"),
			Query:     c.Query("q"),
		}

		pros, total, err := u.SearchDirectory(c.Request.Context(), filter, offset, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(pros, page, limit, total))
	}
}

// VerifyProfessional is the admin verification gate.
func VerifyProfessional(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("admin access required"))
			return
		}

		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID format"))
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		user, err := u.VerifyProfessional(c.Request.Context(), userID, req.Status, accessToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user, "verification status updated"))
	}
}
