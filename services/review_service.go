package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"oficios-server/apperrors"
	"oficios-server/database"
	"oficios-server/models"
	"oficios-server/permissions"
)

// ReviewService is the review ledger: one review per completed request,
// authored by the owning client, rating within 1..5. Worker aggregates are
// recomputed inside the same transaction as the mutation that changes them.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Create persists a review for a completed request. The worker id is copied
// from the request itself, never taken from the caller.
func (s *ReviewService) Create(actor permissions.Actor, in models.ReviewCreate) (*models.Review, error) {
	if in.RequestID == 0 {
		return nil, apperrors.NewValidationError("request_id is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	var review models.Review
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var req models.ServiceRequest
		if err := tx.First(&req, in.RequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("Service request not found")
			}
			return apperrors.NewInternalError("Failed to fetch service request", err)
		}

		if err := permissions.CanCreateReview(actor, &req); err != nil {
			return err
		}
		if req.Status != models.RequestStatusCompleted {
			return apperrors.NewValidationError("Only completed requests may be reviewed")
		}
		if req.WorkerID == nil {
			return apperrors.NewValidationError("The service request has no assigned worker")
		}

		var existing models.Review
		err := tx.Where("request_id = ?", in.RequestID).First(&existing).Error
		if err == nil {
			return apperrors.NewConflictError("A review already exists for this service request")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewInternalError("Failed to check existing review", err)
		}

		review = models.Review{
			RequestID: in.RequestID,
			ClientID:  req.ClientID,
			WorkerID:  *req.WorkerID,
			Rating:    in.Rating,
			Comment:   in.Comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			if isUniqueViolation(err) {
				// Backstop for the window between the existence check and
				// the insert; the reviews.request_id unique index wins.
				return apperrors.NewConflictError("A review already exists for this service request")
			}
			return apperrors.NewInternalError("Failed to create review", err)
		}

		return refreshWorkerAggregates(tx, review.WorkerID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// WorkerReviews returns all reviews for a worker, newest first, together
// with the rounded average rating and the total count. An unreviewed
// worker yields average 0, never a division by zero.
func (s *ReviewService) WorkerReviews(workerID uint) (*models.WorkerReviewSummary, error) {
	var reviews []models.Review
	if err := s.db.
		Where("worker_id = ?", workerID).
		Preload("Client").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, apperrors.NewInternalError("Failed to fetch reviews", err)
	}

	average, total, err := workerAggregates(s.db, workerID)
	if err != nil {
		return nil, err
	}

	return &models.WorkerReviewSummary{
		WorkerID:      workerID,
		Reviews:       reviews,
		AverageRating: average,
		TotalReviews:  total,
	}, nil
}

// ByRequest returns the review attached to a request, if any.
func (s *ReviewService) ByRequest(requestID uint) (*models.Review, error) {
	var review models.Review
	err := s.db.Where("request_id = ?", requestID).Preload("Client").First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("No review exists for this service request")
		}
		return nil, apperrors.NewInternalError("Failed to fetch review", err)
	}
	return &review, nil
}

// Update mutates rating and/or comment on the caller's own review. At
// least one field must be supplied; a supplied rating is re-validated.
func (s *ReviewService) Update(actor permissions.Actor, id uint, upd models.ReviewUpdate) (*models.Review, error) {
	if upd.Rating == nil && upd.Comment == nil {
		return nil, apperrors.NewValidationError("No fields to update")
	}
	if upd.Rating != nil && (*upd.Rating < 1 || *upd.Rating > 5) {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("Review not found")
			}
			return apperrors.NewInternalError("Failed to fetch review", err)
		}

		if err := permissions.CanUpdateReview(actor, &review); err != nil {
			return err
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if upd.Rating != nil {
			updates["rating"] = *upd.Rating
		}
		if upd.Comment != nil {
			updates["comment"] = *upd.Comment
		}

		if err := tx.Model(&review).Updates(updates).Error; err != nil {
			return apperrors.NewInternalError("Failed to update review", err)
		}

		return refreshWorkerAggregates(tx, review.WorkerID)
	})
	if err != nil {
		return nil, err
	}

	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		return nil, apperrors.NewInternalError("Failed to reload review", err)
	}
	return &review, nil
}

// Delete removes a review; the authoring client or an admin may do so.
// Nothing prevents a new review from being created for the freed request
// afterwards — an accepted gap, since completed requests never re-open.
func (s *ReviewService) Delete(actor permissions.Actor, id uint) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("Review not found")
			}
			return apperrors.NewInternalError("Failed to fetch review", err)
		}

		if err := permissions.CanDeleteReview(actor, &review); err != nil {
			return err
		}

		if err := tx.Delete(&review).Error; err != nil {
			return apperrors.NewInternalError("Failed to delete review", err)
		}

		return refreshWorkerAggregates(tx, review.WorkerID)
	})
}

// workerAggregates computes the average rating (rounded to 2 decimals) and
// review count for a worker.
func workerAggregates(db *gorm.DB, workerID uint) (float64, int, error) {
	var agg struct {
		Average float64
		Total   int64
	}
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("worker_id = ?", workerID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, apperrors.NewInternalError("Failed to compute rating aggregates", err)
	}
	return round2(agg.Average), int(agg.Total), nil
}

// refreshWorkerAggregates recomputes the denormalized rating columns on the
// worker's account row.
func refreshWorkerAggregates(tx *gorm.DB, workerID uint) error {
	average, total, err := workerAggregates(tx, workerID)
	if err != nil {
		return err
	}
	err = tx.Model(&models.User{}).Where("id = ?", workerID).Updates(map[string]interface{}{
		"rating":        average,
		"total_reviews": total,
		"updated_at":    time.Now(),
	}).Error
	if err != nil {
		return apperrors.NewInternalError("Failed to update worker aggregates", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// isUniqueViolation recognizes a unique-index violation from Postgres
// (class 23505) or from the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
