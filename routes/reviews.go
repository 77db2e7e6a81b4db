package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oficios-server/apperrors"
	"oficios-server/models"
	"oficios-server/services"
)

// ReviewHandler exposes the review ledger. Reading a worker's reviews and
// looking up the review for a request are public; everything else requires
// authentication.
type ReviewHandler struct {
	reviews *services.ReviewService
}

// RegisterReviewRoutes registers all review routes
func RegisterReviewRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc, svc *services.ReviewService) {
	h := &ReviewHandler{reviews: svc}

	router.POST("", authRequired, h.create)
	router.GET("/worker/:workerId", h.workerReviews)
	router.GET("/request/:requestId", h.byRequest)
	router.PUT("/:id", authRequired, h.update)
	router.DELETE("/:id", authRequired, h.delete)
}

func (h *ReviewHandler) create(c *gin.Context) {
	var body models.ReviewCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid review data: "+err.Error()))
		return
	}

	review, err := h.reviews.Create(currentActor(c), body)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Review created successfully",
		"review":  review,
	})
}

func (h *ReviewHandler) workerReviews(c *gin.Context) {
	workerID, ok := parseID(c, "workerId")
	if !ok {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid worker ID"))
		return
	}

	summary, err := h.reviews.WorkerReviews(workerID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"reviews":        summary.Reviews,
		"average_rating": summary.AverageRating,
		"total_reviews":  summary.TotalReviews,
	})
}

func (h *ReviewHandler) byRequest(c *gin.Context) {
	requestID, ok := parseID(c, "requestId")
	if !ok {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid service request ID"))
		return
	}

	review, err := h.reviews.ByRequest(requestID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"review": review,
	})
}

func (h *ReviewHandler) update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid review ID"))
		return
	}

	var body models.ReviewUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid review data: "+err.Error()))
		return
	}

	review, err := h.reviews.Update(currentActor(c), id, body)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Review updated successfully",
		"review":  review,
	})
}

func (h *ReviewHandler) delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid review ID"))
		return
	}

	if err := h.reviews.Delete(currentActor(c), id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Review deleted successfully",
		"deleted_id": id,
	})
}
