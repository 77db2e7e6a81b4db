package models

import (
	"time"

	"gorm.io/gorm"
)

// Service represents a published offering from a worker within a category.
// Service requests may optionally point at one; when they do, the offering
// must belong to the assigned worker.
type Service struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	WorkerID    uint           `json:"worker_id" gorm:"not null;index"`
	Worker      User           `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
	CategoryID  uint           `json:"category_id" gorm:"not null"`
	Category    Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Title       string         `json:"title" gorm:"type:varchar(200);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       *float64       `json:"price" gorm:"type:decimal(10,2)"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// ServiceCreate represents the request structure for publishing a service
type ServiceCreate struct {
	CategoryID  uint     `json:"category_id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
}
