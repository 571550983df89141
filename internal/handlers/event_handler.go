package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taxdir/api/internal/extractor"
	"github.com/taxdir/api/internal/models"
	"github.com/taxdir/api/internal/services"
)

// validationBatchSize is how many stale events one batch trigger processes.
const validationBatchSize = 50

// ExtractEvent derives an event draft from a candidate URL. The draft is
// returned for admin inspection; nothing is persisted.
func ExtractEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("admin access required"))
			return
		}

		var req struct {
			URL string `json:"url" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		draft, err := es.ExtractDraft(c.Request.Context(), req.URL)
		if err != nil {
			switch extractor.KindOf(err) {
			case extractor.KindInvalidURL, extractor.KindParseFailed:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case extractor.KindFetchFailed:
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, draft)
	}
}

// SubmitEvent persists an admin-approved draft as a pending event record.
func SubmitEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("admin access required"))
			return
		}

		var draft extractor.Draft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		submittedBy, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user ID in token"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		event, err := es.CreateEventFromDraft(c.Request.Context(), &draft, submittedBy, accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(event, "event submitted for review"))
	}
}

// CheckLink runs a single on-demand link health check. A classified unhealthy
// link is a 200: the check itself succeeded.
func CheckLink(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("admin access required"))
			return
		}

		var req struct {
			URL  string   `json:"url" binding:"required"`
			Tags []string `json:"tags"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := es.CheckLink(c.Request.Context(), req.URL, req.Tags)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
	}
}

// RunValidationBatch triggers one sequential validation pass over the stalest
// pending events.
func RunValidationBatch(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("admin access required"))
			return
		}

		summary, err := es.RunValidationBatch(c.Request.Context(), validationBatchSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"processed":   summary.Processed,
			"validated":   summary.Validated,
			"publishable": summary.Publishable,
			"errors":      summary.Errors,
			"message":     fmt.Sprintf("validated %d of %d events", summary.Validated, summary.Processed),
		})
	}
}

// ListEvents is the public calendar: only publishable AND approved records.
func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := pagination(c)
		if !ok {
			return
		}

		events, total, err := es.ListPublicEvents(c.Request.Context(), offset, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(events, page, limit, total))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid event ID format"))
			return
		}

		event, err := es.GetEvent(c.Request.Context(), eventID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		if event == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse("event not found"))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

// ReviewEvent applies an admin review transition (the editorial gate).
func ReviewEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, models.ErrorResponse("admin access required"))
			return
		}

		eventID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid event ID format"))
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
		event, err := es.ReviewEvent(c.Request.Context(), eventID, req.Status, accessToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(event, "review status updated"))
	}
}
