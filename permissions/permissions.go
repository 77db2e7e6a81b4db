// Package permissions holds the pure authorization decisions for service
// requests and reviews. Nothing in here touches the database; callers load
// the resource first and ask whether the actor may act on it. Denials are
// signaled as typed errors, never silently short-circuited.
package permissions

import (
	"oficios-server/apperrors"
	"oficios-server/models"
)

// Actor is the authenticated caller as injected by the auth middleware.
type Actor struct {
	ID   uint
	Role models.UserRole
}

// ListScope says which slice of requests a caller may list.
type ListScope int

const (
	// ScopeOwn limits the listing to requests the caller created.
	ScopeOwn ListScope = iota
	// ScopeAssigned limits the listing to requests assigned to the caller.
	ScopeAssigned
	// ScopeAll is the unrestricted admin view.
	ScopeAll
)

// RequestListScope returns the default visibility for listing requests.
// A role outside the enum falls back to client-only visibility.
func RequestListScope(actor Actor) ListScope {
	switch actor.Role {
	case models.RoleAdmin:
		return ScopeAll
	case models.RoleWorker:
		return ScopeAssigned
	case models.RoleClient:
		return ScopeOwn
	default:
		return ScopeOwn
	}
}

// CanReadRequest allows the admin, the owning client and the assigned worker.
func CanReadRequest(actor Actor, req *models.ServiceRequest) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleWorker:
		if req.WorkerID != nil && *req.WorkerID == actor.ID {
			return nil
		}
	case models.RoleClient:
		if req.ClientID == actor.ID {
			return nil
		}
	default:
		// Unknown roles get client-only visibility.
		if req.ClientID == actor.ID {
			return nil
		}
	}
	return apperrors.NewForbiddenError("You do not have access to this service request")
}

// CanUpdateRequest decides generic update permission. A trabajador may act
// on a request assigned to them; an unassigned request is only reachable
// through acceptance (accepting true), where the open worker slot is being
// claimed. Whether the acceptance itself is legal is the lifecycle
// manager's call.
func CanUpdateRequest(actor Actor, req *models.ServiceRequest, accepting bool) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleWorker:
		if req.WorkerID != nil {
			if *req.WorkerID == actor.ID {
				return nil
			}
			return apperrors.NewForbiddenError("This service request is assigned to another worker")
		}
		if accepting {
			return nil
		}
		return apperrors.NewForbiddenError("Workers can only accept an open service request")
	case models.RoleClient:
		if req.ClientID == actor.ID {
			return nil
		}
		return apperrors.NewForbiddenError("You can only update your own service requests")
	default:
		return apperrors.NewForbiddenError("You cannot update this service request")
	}
}

// CanReassignWorker gates worker_id changes through updates; admin only.
func CanReassignWorker(actor Actor) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	return apperrors.NewForbiddenError("Only an administrator can reassign the worker")
}

// CanDeleteRequest allows the admin unconditionally; the owning client or
// assigned worker may delete only while the request is pending or cancelled.
func CanDeleteRequest(actor Actor, req *models.ServiceRequest) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}

	isOwner := actor.Role == models.RoleClient && req.ClientID == actor.ID
	isAssignee := actor.Role == models.RoleWorker && req.WorkerID != nil && *req.WorkerID == actor.ID
	if !isOwner && !isAssignee {
		return apperrors.NewForbiddenError("You cannot delete this service request")
	}

	if req.Status != models.RequestStatusPending && req.Status != models.RequestStatusCancelled {
		return apperrors.NewValidationError("Only pending or cancelled requests can be deleted")
	}
	return nil
}

// CanCreateReview allows only the request's owning client.
func CanCreateReview(actor Actor, req *models.ServiceRequest) error {
	if req.ClientID == actor.ID {
		return nil
	}
	return apperrors.NewForbiddenError("You can only review services you requested")
}

// CanUpdateReview allows only the authoring client.
func CanUpdateReview(actor Actor, review *models.Review) error {
	if review.ClientID == actor.ID {
		return nil
	}
	return apperrors.NewForbiddenError("You can only update your own reviews")
}

// CanDeleteReview allows the authoring client or an admin.
func CanDeleteReview(actor Actor, review *models.Review) error {
	if actor.Role == models.RoleAdmin || review.ClientID == actor.ID {
		return nil
	}
	return apperrors.NewForbiddenError("You can only delete your own reviews")
}
