package models

import "time"

// Review represents post-completion feedback from a client about a worker.
// At most one review exists per service request; the unique index backs
// that invariant at the storage layer. Reviews are hard-deleted so the
// request_id slot is genuinely freed on delete.
type Review struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	RequestID uint           `json:"request_id" gorm:"not null;uniqueIndex"`
	Request   ServiceRequest `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	ClientID  uint           `json:"client_id" gorm:"not null;index"`
	Client    User           `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	WorkerID  uint           `json:"worker_id" gorm:"not null;index"`
	Worker    User           `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
	Rating    int            `json:"rating" gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
	Comment   string         `json:"comment" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// ReviewCreate represents the request body for creating a review
type ReviewCreate struct {
	RequestID uint   `json:"request_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// ReviewUpdate represents the request body for a partial review update
type ReviewUpdate struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// WorkerReviewSummary bundles a worker's reviews with their aggregates.
type WorkerReviewSummary struct {
	WorkerID      uint     `json:"worker_id"`
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	TotalReviews  int      `json:"total_reviews"`
}
