package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oficios-server/apperrors"
	"oficios-server/models"
	"oficios-server/services"
)

// ServiceRequestHandler exposes the request lifecycle over HTTP. All
// routes require authentication; fine-grained authorization lives in the
// service layer.
type ServiceRequestHandler struct {
	requests *services.RequestService
}

// RegisterServiceRequestRoutes registers all service request routes
func RegisterServiceRequestRoutes(router *gin.RouterGroup, svc *services.RequestService) {
	h := &ServiceRequestHandler{requests: svc}

	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *ServiceRequestHandler) create(c *gin.Context) {
	var body models.ServiceRequestCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}

	req, err := h.requests.Create(currentActor(c), body)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":          "success",
		"message":         "Service request created successfully",
		"service_request": req,
	})
}

func (h *ServiceRequestHandler) list(c *gin.Context) {
	filter := services.RequestListFilter{
		Status:   c.Query("status"),
		AsClient: c.Query("as_client") == "true",
		AsWorker: c.Query("as_worker") == "true",
	}

	requests, err := h.requests.List(currentActor(c), filter)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "success",
		"service_requests": requests,
		"total_count":      len(requests),
	})
}

func (h *ServiceRequestHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid service request ID"))
		return
	}

	req, err := h.requests.Get(currentActor(c), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"service_request": req,
	})
}

func (h *ServiceRequestHandler) update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid service request ID"))
		return
	}

	var body models.ServiceRequestUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}

	req, err := h.requests.Update(currentActor(c), id, body)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"message":         "Service request updated successfully",
		"service_request": req,
	})
}

func (h *ServiceRequestHandler) delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid service request ID"))
		return
	}

	if err := h.requests.Delete(currentActor(c), id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Service request deleted successfully",
		"deleted_id": id,
	})
}
