package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole is the closed set of account roles. Authorization logic matches
// on it exhaustively so an unknown role can never widen access.
type UserRole string

const (
	RoleClient UserRole = "usuario"
	RoleWorker UserRole = "trabajador"
	RoleAdmin  UserRole = "admin"
)

// ParseRole maps a stored role string onto the enum. Anything unknown
// collapses to the least-privileged role.
func ParseRole(s string) UserRole {
	switch UserRole(s) {
	case RoleClient, RoleWorker, RoleAdmin:
		return UserRole(s)
	default:
		return RoleClient
	}
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	FullName     string   `json:"full_name" gorm:"size:255;not null"`
	Email        string   `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'usuario';check:role IN ('usuario','trabajador','admin')"`
	IsActive     bool     `json:"is_active" gorm:"default:true"`

	// Denormalized review aggregates, maintained for trabajador accounts
	// whenever a review is created, updated or deleted.
	Rating       float64 `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalReviews int     `json:"total_reviews" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleClient
	}
	return nil
}

// IsWorker checks if the user is a worker
func (u *User) IsWorker() bool {
	return u.Role == RoleWorker
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsClient checks if the user is a client
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
