package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taxdir/api/internal/models"
	"github.com/taxdir/api/internal/services"
)

func CreateJob(js *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsFirm() && !claims.HasRole(models.RoleClient) && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only firms and clients can post jobs"))
			return
		}

		var job models.Job
		if err := c.ShouldBindJSON(&job); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		postedBy, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		created, err := js.CreateJob(c.Request.Context(), &job, postedBy, accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "job posted"))
	}
}

func ListJobs(js *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := pagination(c)
		if !ok {
			return
		}

		jobs, total, err := js.ListOpenJobs(c.Request.Context(), c.Query("specialty"), c.Query("state"), offset, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(jobs, page, limit, total))
	}
}

func GetJob(js *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid job ID format"))
			return
		}

		job, err := js.GetJob(c.Request.Context(), jobID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		if job == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("job not found"))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(job, ""))
	}
}

func CloseJob(js *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}

		jobID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid job ID format"))
			return
		}

		job, err := js.GetJob(c.Request.Context(), jobID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		if job == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("job not found"))
			return
		}
		if !claims.IsOwner(job.PostedBy.String()) && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("you can only close your own jobs"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		if err := js.CloseJob(c.Request.Context(), jobID, accessToken); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "job closed"))
	}
}

func ApplyToJob(js *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsProfessional() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("only professionals can apply"))
			return
		}

		jobID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid job ID format"))
			return
		}

		professionalID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
			return
		}

		var req struct {
			CoverNote string `json:"cover_note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		app, err := js.Apply(c.Request.Context(), jobID, professionalID, req.CoverNote, accessToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(app, "application submitted"))
	}
}

func ListApplications(js *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}

		jobID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid job ID format"))
			return
		}

		job, err := js.GetJob(c.Request.Context(), jobID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		if job == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("job not found"))
			return
		}
		if !claims.IsOwner(job.PostedBy.String()) && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("you can only view applications to your own jobs"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		apps, err := js.ListApplications(c.Request.Context(), jobID, accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(apps, ""))
	}
}

func UpdateApplicationStatus(js *services.JobService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}

		appID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid application ID format"))
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if !claims.IsFirm() && !claims.HasRole(models.RoleClient) && !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		app, err := js.UpdateApplicationStatus(c.Request.Context(), appID, req.Status, accessToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(app, "application updated"))
	}
}
