package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"oficios-server/apperrors"
	"oficios-server/database"
	"oficios-server/models"
	"oficios-server/permissions"
)

// RequestService owns the service-request lifecycle: creation validation,
// the status state machine, role-gated partial updates and deletion. Every
// multi-statement mutation runs inside a single transaction.
type RequestService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewRequestService(db *gorm.DB, notifier Notifier) *RequestService {
	return &RequestService{db: db, notifier: notifier}
}

// RequestListFilter narrows the listing. AsClient and AsWorker override the
// caller's default role-based view.
type RequestListFilter struct {
	Status   string
	AsClient bool
	AsWorker bool
}

// Create validates the referenced category, service and worker and writes
// the request with status pending. The caller becomes the owning client.
func (s *RequestService) Create(actor permissions.Actor, in models.ServiceRequestCreate) (*models.ServiceRequest, error) {
	if in.Description == "" {
		return nil, apperrors.NewValidationError("description is required")
	}
	if in.CategoryID == 0 {
		return nil, apperrors.NewValidationError("category_id is required")
	}

	req := models.ServiceRequest{
		ClientID:      actor.ID,
		WorkerID:      in.WorkerID,
		ServiceID:     in.ServiceID,
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		Address:       in.Address,
		ScheduledDate: in.ScheduledDate,
		Status:        models.RequestStatusPending,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewValidationError("category_id does not reference an existing category")
			}
			return apperrors.NewInternalError("Failed to resolve category", err)
		}

		if in.WorkerID != nil {
			var worker models.User
			if err := tx.First(&worker, *in.WorkerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NewValidationError("worker_id does not reference an existing account")
				}
				return apperrors.NewInternalError("Failed to resolve worker", err)
			}
			if !worker.IsWorker() {
				return apperrors.NewValidationError("worker_id does not reference a worker account")
			}
		}

		if in.ServiceID != nil {
			var service models.Service
			if err := tx.First(&service, *in.ServiceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NewValidationError("service_id does not reference an existing service")
				}
				return apperrors.NewInternalError("Failed to resolve service", err)
			}
			if in.WorkerID != nil && service.WorkerID != *in.WorkerID {
				return apperrors.NewValidationError("service_id does not belong to the selected worker")
			}
		}

		if err := tx.Create(&req).Error; err != nil {
			return apperrors.NewInternalError("Failed to create service request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.load(req.ID)
}

// List returns the requests visible to the caller: admins see everything,
// a trabajador sees requests assigned to them, everyone else sees the
// requests they created. An optional status filter applies on top.
func (s *RequestService) List(actor permissions.Actor, filter RequestListFilter) ([]models.ServiceRequest, error) {
	scope := permissions.RequestListScope(actor)
	if filter.AsClient {
		scope = permissions.ScopeOwn
	} else if filter.AsWorker {
		scope = permissions.ScopeAssigned
	}

	query := s.db.Model(&models.ServiceRequest{}).
		Preload("Category").
		Preload("Worker").
		Order("created_at DESC")

	switch scope {
	case permissions.ScopeAll:
		// no ownership filter
	case permissions.ScopeAssigned:
		query = query.Where("worker_id = ?", actor.ID)
	default:
		query = query.Where("client_id = ?", actor.ID)
	}

	if filter.Status != "" {
		status := models.RequestStatus(filter.Status)
		if !status.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status filter %q", filter.Status))
		}
		query = query.Where("status = ?", status)
	}

	var requests []models.ServiceRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, apperrors.NewInternalError("Failed to fetch service requests", err)
	}
	return requests, nil
}

// Get returns one request, restricted to the admin, the owning client and
// the assigned worker.
func (s *RequestService) Get(actor permissions.Actor, id uint) (*models.ServiceRequest, error) {
	req, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := permissions.CanReadRequest(actor, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Update applies a partial update. Status changes follow the transition
// table; worker reassignment is admin-only; scheduled_date and address are
// freely mutable by anyone with update permission. An update carrying no
// recognized field is rejected before any write.
func (s *RequestService) Update(actor permissions.Actor, id uint, upd models.ServiceRequestUpdate) (*models.ServiceRequest, error) {
	statusChanged := false

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var req models.ServiceRequest
		if err := tx.First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("Service request not found")
			}
			return apperrors.NewInternalError("Failed to fetch service request", err)
		}

		accepting := upd.Status != nil &&
			models.RequestStatus(*upd.Status) == models.RequestStatusAccepted
		if err := permissions.CanUpdateRequest(actor, &req, accepting); err != nil {
			return err
		}
		if upd.IsEmpty() {
			return apperrors.NewValidationError("No fields to update")
		}

		updates := map[string]interface{}{}

		if upd.WorkerID != nil {
			if err := permissions.CanReassignWorker(actor); err != nil {
				return err
			}
			var worker models.User
			if err := tx.First(&worker, *upd.WorkerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NewValidationError("worker_id does not reference an existing account")
				}
				return apperrors.NewInternalError("Failed to resolve worker", err)
			}
			if !worker.IsWorker() {
				return apperrors.NewValidationError("worker_id does not reference a worker account")
			}
			updates["worker_id"] = *upd.WorkerID
		}
		if upd.ScheduledDate != nil {
			updates["scheduled_date"] = *upd.ScheduledDate
		}
		if upd.Address != nil {
			updates["address"] = *upd.Address
		}
		updates["updated_at"] = time.Now()

		if upd.Status == nil {
			res := tx.Model(&models.ServiceRequest{}).Where("id = ?", req.ID).Updates(updates)
			if res.Error != nil {
				return apperrors.NewInternalError("Failed to update service request", res.Error)
			}
			return nil
		}

		target := models.RequestStatus(*upd.Status)
		if !target.IsValid() {
			return apperrors.NewValidationError(fmt.Sprintf("invalid status %q", *upd.Status))
		}
		if req.Status.IsTerminal() {
			if req.Status == models.RequestStatusCompleted && target == models.RequestStatusCancelled {
				return apperrors.NewValidationError("Completed requests cannot be cancelled")
			}
			return apperrors.NewValidationError(fmt.Sprintf("A %s request cannot change status", req.Status))
		}
		statusChanged = true

		workerAttached := func() bool {
			if req.WorkerID != nil {
				return true
			}
			_, ok := updates["worker_id"]
			return ok
		}

		switch target {
		case models.RequestStatusAccepted:
			// A trabajador accepting an open request claims it.
			if actor.Role == models.RoleWorker && req.WorkerID == nil && upd.WorkerID == nil {
				updates["worker_id"] = actor.ID
			}
			if !workerAttached() {
				return apperrors.NewValidationError("A worker must be assigned before the request is accepted")
			}
			updates["status"] = string(models.RequestStatusAccepted)

			// Conditional write: the accept only lands if the row is still
			// pending, which closes the race between two competing workers.
			res := tx.Model(&models.ServiceRequest{}).
				Where("id = ? AND status = ?", req.ID, models.RequestStatusPending).
				Updates(updates)
			if res.Error != nil {
				return apperrors.NewInternalError("Failed to accept service request", res.Error)
			}
			if res.RowsAffected == 0 {
				return apperrors.NewValidationError("Only pending requests may be accepted")
			}

		case models.RequestStatusCancelled:
			updates["status"] = string(models.RequestStatusCancelled)
			res := tx.Model(&models.ServiceRequest{}).
				Where("id = ? AND status <> ?", req.ID, models.RequestStatusCompleted).
				Updates(updates)
			if res.Error != nil {
				return apperrors.NewInternalError("Failed to cancel service request", res.Error)
			}
			if res.RowsAffected == 0 {
				return apperrors.NewConflictError("The service request was completed concurrently")
			}

		default:
			// pending, in_progress, completed are reachable from any
			// non-terminal state, but a request cannot leave pending
			// without a worker attached.
			if target != models.RequestStatusPending && !workerAttached() {
				return apperrors.NewValidationError("A worker must be assigned before the request can progress")
			}
			updates["status"] = string(target)
			res := tx.Model(&models.ServiceRequest{}).Where("id = ?", req.ID).Updates(updates)
			if res.Error != nil {
				return apperrors.NewInternalError("Failed to update service request", res.Error)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if statusChanged && s.notifier != nil {
		s.notifier.RequestStatusChanged(updated)
	}
	return updated, nil
}

// Delete removes a request. Admins may delete in any state; the owning
// client or assigned worker only while it is pending or cancelled.
func (s *RequestService) Delete(actor permissions.Actor, id uint) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var req models.ServiceRequest
		if err := tx.First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("Service request not found")
			}
			return apperrors.NewInternalError("Failed to fetch service request", err)
		}

		if err := permissions.CanDeleteRequest(actor, &req); err != nil {
			return err
		}

		if err := tx.Delete(&req).Error; err != nil {
			return apperrors.NewInternalError("Failed to delete service request", err)
		}
		return nil
	})
}

func (s *RequestService) load(id uint) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := s.db.
		Preload("Category").
		Preload("Worker").
		Preload("Service").
		First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Service request not found")
		}
		return nil, apperrors.NewInternalError("Failed to fetch service request", err)
	}
	return &req, nil
}
