package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"oficios-server/apperrors"
	"oficios-server/models"
)

// CategoryHandler serves the public category catalog.
type CategoryHandler struct {
	db *gorm.DB
}

// RegisterCategoryRoutes registers the category catalog routes
func RegisterCategoryRoutes(router *gin.RouterGroup, db *gorm.DB) {
	h := &CategoryHandler{db: db}

	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *CategoryHandler) list(c *gin.Context) {
	var categories []models.Category
	if err := h.db.
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("Failed to fetch categories", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"categories": categories,
	})
}

func (h *CategoryHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid category ID"))
		return
	}

	var category models.Category
	if err := h.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(c, apperrors.NewNotFoundError("Category not found"))
			return
		}
		apperrors.Respond(c, apperrors.NewInternalError("Failed to fetch category", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"category": category,
	})
}
