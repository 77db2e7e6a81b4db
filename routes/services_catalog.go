package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"oficios-server/apperrors"
	"oficios-server/models"
)

// ServiceCatalogHandler serves the published service offerings. Listing is
// public; publishing requires a trabajador account.
type ServiceCatalogHandler struct {
	db *gorm.DB
}

// RegisterServiceCatalogRoutes registers the service catalog routes
func RegisterServiceCatalogRoutes(router *gin.RouterGroup, db *gorm.DB, authRequired gin.HandlerFunc) {
	h := &ServiceCatalogHandler{db: db}

	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", authRequired, h.create)
}

func (h *ServiceCatalogHandler) list(c *gin.Context) {
	query := h.db.Where("is_active = ?", true).Preload("Category")

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if workerID := c.Query("worker_id"); workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}

	var offerings []models.Service
	if err := query.Order("created_at DESC").Find(&offerings).Error; err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("Failed to fetch services", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"services": offerings,
	})
}

func (h *ServiceCatalogHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid service ID"))
		return
	}

	var offering models.Service
	if err := h.db.Preload("Category").First(&offering, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(c, apperrors.NewNotFoundError("Service not found"))
			return
		}
		apperrors.Respond(c, apperrors.NewInternalError("Failed to fetch service", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"service": offering,
	})
}

func (h *ServiceCatalogHandler) create(c *gin.Context) {
	actor := currentActor(c)
	if actor.Role != models.RoleWorker {
		apperrors.Respond(c, apperrors.NewForbiddenError("Only workers can publish services"))
		return
	}

	var body models.ServiceCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid service data: "+err.Error()))
		return
	}

	var category models.Category
	if err := h.db.First(&category, body.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(c, apperrors.NewValidationError("category_id does not reference an existing category"))
			return
		}
		apperrors.Respond(c, apperrors.NewInternalError("Failed to resolve category", err))
		return
	}

	offering := models.Service{
		WorkerID:    actor.ID,
		CategoryID:  body.CategoryID,
		Title:       body.Title,
		Description: body.Description,
		Price:       body.Price,
		IsActive:    true,
	}
	if err := h.db.Create(&offering).Error; err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("Failed to create service", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Service published successfully",
		"service": offering,
	})
}
