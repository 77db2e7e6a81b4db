package models

import (
	"time"

	"gorm.io/gorm"
)

// RequestStatus represents the current status of a service request
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusAccepted   RequestStatus = "accepted"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// IsValid reports whether s is one of the five known statuses.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusInProgress,
		RequestStatusCompleted, RequestStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further business transition leaves s.
// cancelled is terminal outright; completed only unlocks reviews.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// ServiceRequest represents a client's ask for a worker to perform a
// category-scoped service, tracked through the status lifecycle.
type ServiceRequest struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	ClientID      uint          `json:"client_id" gorm:"not null;index"`
	Client        User          `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	WorkerID      *uint         `json:"worker_id" gorm:"index"`
	Worker        *User         `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
	ServiceID     *uint         `json:"service_id"`
	Service       *Service      `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	CategoryID    uint          `json:"category_id" gorm:"not null"`
	Category      Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Description   string        `json:"description" gorm:"type:text;not null"`
	Address       string        `json:"address" gorm:"type:text"`
	ScheduledDate *time.Time    `json:"scheduled_date"`
	Status        RequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the ServiceRequest model
func (ServiceRequest) TableName() string {
	return "service_requests"
}

// ServiceRequestCreate represents the request body for creating a service request
type ServiceRequestCreate struct {
	CategoryID    uint       `json:"category_id" binding:"required"`
	Description   string     `json:"description" binding:"required"`
	WorkerID      *uint      `json:"worker_id"`
	ServiceID     *uint      `json:"service_id"`
	Address       string     `json:"address"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

// ServiceRequestUpdate represents the request body for a partial update.
// Only fields that are present are applied; worker_id is admin-only.
type ServiceRequestUpdate struct {
	Status        *string    `json:"status"`
	WorkerID      *uint      `json:"worker_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Address       *string    `json:"address"`
}

// IsEmpty reports whether the update carries no recognized field.
func (u ServiceRequestUpdate) IsEmpty() bool {
	return u.Status == nil && u.WorkerID == nil && u.ScheduledDate == nil && u.Address == nil
}
