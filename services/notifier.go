package services

import "oficios-server/models"

// Notifier receives lifecycle events after they have been committed.
// Delivery is best-effort and must never affect the outcome of the
// mutation that produced the event.
type Notifier interface {
	RequestStatusChanged(req *models.ServiceRequest)
}
