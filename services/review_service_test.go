package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"oficios-server/apperrors"
	"oficios-server/models"
)

func completedRequest(t *testing.T, db *gorm.DB, client models.User, worker models.User) models.ServiceRequest {
	t.Helper()
	category := createCategory(t, db, "cat-"+client.Email)
	return createRequest(t, db, client, category, models.RequestStatusCompleted, &worker)
}

func TestCreateReviewGating(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	client := createUser(t, db, "client", models.RoleClient)
	other := createUser(t, db, "other", models.RoleClient)
	worker := createUser(t, db, "worker", models.RoleWorker)
	category := createCategory(t, db, "Plomería")

	t.Run("missing request", func(t *testing.T) {
		_, err := svc.Create(actorFor(client), models.ReviewCreate{RequestID: 9999, Rating: 5})
		assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
	})

	t.Run("request not completed", func(t *testing.T) {
		req := createRequest(t, db, client, category, models.RequestStatusInProgress, &worker)
		_, err := svc.Create(actorFor(client), models.ReviewCreate{RequestID: req.ID, Rating: 5})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		assert.Contains(t, err.Error(), "Only completed requests may be reviewed")
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		req := createRequest(t, db, client, category, models.RequestStatusCompleted, &worker)
		_, err := svc.Create(actorFor(other), models.ReviewCreate{RequestID: req.ID, Rating: 5})
		assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.TypeOf(err))

		_, err = svc.Create(actorFor(worker), models.ReviewCreate{RequestID: req.ID, Rating: 5})
		assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.TypeOf(err))
	})

	t.Run("rating bounds", func(t *testing.T) {
		req := createRequest(t, db, client, category, models.RequestStatusCompleted, &worker)
		for _, rating := range []int{0, 6, -1} {
			_, err := svc.Create(actorFor(client), models.ReviewCreate{RequestID: req.ID, Rating: rating})
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err), "rating %d", rating)
		}
	})
}

func TestCreateReviewCopiesWorkerFromRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	client := createUser(t, db, "client", models.RoleClient)
	worker := createUser(t, db, "worker", models.RoleWorker)
	req := completedRequest(t, db, client, worker)

	review, err := svc.Create(actorFor(client), models.ReviewCreate{
		RequestID: req.ID,
		Rating:    5,
		Comment:   "Excelente trabajo",
	})
	require.NoError(t, err)
	assert.Equal(t, worker.ID, review.WorkerID)
	assert.Equal(t, client.ID, review.ClientID)
	assert.Equal(t, req.ID, review.RequestID)
	assert.Equal(t, 5, review.Rating)
}

func TestDuplicateReviewConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	client := createUser(t, db, "client", models.RoleClient)
	worker := createUser(t, db, "worker", models.RoleWorker)
	req := completedRequest(t, db, client, worker)

	_, err := svc.Create(actorFor(client), models.ReviewCreate{RequestID: req.ID, Rating: 4})
	require.NoError(t, err)

	_, err = svc.Create(actorFor(client), models.ReviewCreate{RequestID: req.ID, Rating: 5})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(err))
}

func TestWorkerReviewAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	worker := createUser(t, db, "worker", models.RoleWorker)

	// No reviews yet: zero average, zero count.
	summary, err := svc.WorkerReviews(worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.AverageRating)
	assert.Equal(t, 0, summary.TotalReviews)
	assert.Empty(t, summary.Reviews)

	for i, rating := range []int{5, 4} {
		reviewer := createUser(t, db, fmt.Sprintf("client-%d", i), models.RoleClient)
		req := completedRequest(t, db, reviewer, worker)
		_, err := svc.Create(actorFor(reviewer), models.ReviewCreate{RequestID: req.ID, Rating: rating})
		require.NoError(t, err)
	}

	summary, err = svc.WorkerReviews(worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, summary.AverageRating)
	assert.Equal(t, 2, summary.TotalReviews)
	require.Len(t, summary.Reviews, 2)

	// 5, 4, 4 rounds to 4.33.
	third := createUser(t, db, "client-2", models.RoleClient)
	req := completedRequest(t, db, third, worker)
	_, err = svc.Create(actorFor(third), models.ReviewCreate{RequestID: req.ID, Rating: 4})
	require.NoError(t, err)

	summary, err = svc.WorkerReviews(worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.33, summary.AverageRating)
	assert.Equal(t, 3, summary.TotalReviews)

	// The denormalized columns on the account row track the ledger.
	var fresh models.User
	require.NoError(t, db.First(&fresh, worker.ID).Error)
	assert.Equal(t, 4.33, fresh.Rating)
	assert.Equal(t, 3, fresh.TotalReviews)
}

func TestUpdateReview(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	client := createUser(t, db, "client", models.RoleClient)
	other := createUser(t, db, "other", models.RoleClient)
	admin := createUser(t, db, "admin", models.RoleAdmin)
	worker := createUser(t, db, "worker", models.RoleWorker)
	req := completedRequest(t, db, client, worker)

	review, err := svc.Create(actorFor(client), models.ReviewCreate{RequestID: req.ID, Rating: 2, Comment: "regular"})
	require.NoError(t, err)

	t.Run("requires at least one field", func(t *testing.T) {
		_, err := svc.Update(actorFor(client), review.ID, models.ReviewUpdate{})
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("rating bounds re-checked", func(t *testing.T) {
		bad := 9
		_, err := svc.Update(actorFor(client), review.ID, models.ReviewUpdate{Rating: &bad})
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("only the author may edit", func(t *testing.T) {
		rating := 4
		_, err := svc.Update(actorFor(other), review.ID, models.ReviewUpdate{Rating: &rating})
		assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.TypeOf(err))

		_, err = svc.Update(actorFor(admin), review.ID, models.ReviewUpdate{Rating: &rating})
		assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.TypeOf(err))
	})

	t.Run("edit refreshes the aggregates", func(t *testing.T) {
		rating := 5
		comment := "mucho mejor"
		updated, err := svc.Update(actorFor(client), review.ID, models.ReviewUpdate{Rating: &rating, Comment: &comment})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Rating)
		assert.Equal(t, "mucho mejor", updated.Comment)

		var fresh models.User
		require.NoError(t, db.First(&fresh, worker.ID).Error)
		assert.Equal(t, 5.0, fresh.Rating)
		assert.Equal(t, 1, fresh.TotalReviews)
	})

	t.Run("unknown review", func(t *testing.T) {
		rating := 3
		_, err := svc.Update(actorFor(client), 99999, models.ReviewUpdate{Rating: &rating})
		assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
	})
}

func TestDeleteReview(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	client := createUser(t, db, "client", models.RoleClient)
	other := createUser(t, db, "other", models.RoleClient)
	admin := createUser(t, db, "admin", models.RoleAdmin)
	worker := createUser(t, db, "worker", models.RoleWorker)
	req := completedRequest(t, db, client, worker)

	review, err := svc.Create(actorFor(client), models.ReviewCreate{RequestID: req.ID, Rating: 5})
	require.NoError(t, err)

	err = svc.Delete(actorFor(other), review.ID)
	assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.TypeOf(err))

	require.NoError(t, svc.Delete(actorFor(client), review.ID))

	// Aggregates drop back to zero.
	var fresh models.User
	require.NoError(t, db.First(&fresh, worker.ID).Error)
	assert.Equal(t, 0.0, fresh.Rating)
	assert.Equal(t, 0, fresh.TotalReviews)

	// The freed request slot accepts a new review.
	recreated, err := svc.Create(actorFor(client), models.ReviewCreate{RequestID: req.ID, Rating: 3})
	require.NoError(t, err)

	// Admin may delete someone else's review.
	require.NoError(t, svc.Delete(actorFor(admin), recreated.ID))

	err = svc.Delete(actorFor(admin), 99999)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestReviewByRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	client := createUser(t, db, "client", models.RoleClient)
	worker := createUser(t, db, "worker", models.RoleWorker)
	req := completedRequest(t, db, client, worker)

	_, err := svc.ByRequest(req.ID)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))

	created, err := svc.Create(actorFor(client), models.ReviewCreate{RequestID: req.ID, Rating: 4})
	require.NoError(t, err)

	found, err := svc.ByRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
