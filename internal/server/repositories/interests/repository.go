// Package interests stores members' claims on objects. The table key is the
// (object, member) pair.
package interests

import (
	"context"

	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, objectID, memberID int64) (*models.Interest, error)
	// Create fails with common.ErrorConflict when the pair already exists.
	Create(ctx context.Context, interest *models.Interest) (*models.Interest, error)
	// GetAllByObject lists interests in insertion order.
	GetAllByObject(ctx context.Context, objectID int64) ([]*models.Interest, error)
	// GetAssigned returns the assigned interest of an object or common.ErrorNotFound.
	GetAssigned(ctx context.Context, objectID int64) (*models.Interest, error)
	// GetByMember lists the member's interests with their objects.
	GetByMember(ctx context.Context, memberID int64) ([]*models.Interest, error)
	// GetNotifications lists assigned or re-published interests the member
	// has not acknowledged yet.
	GetNotifications(ctx context.Context, memberID int64) ([]*models.Interest, error)
	// UpdateStatus sets the status and the notification flag. Assigning a
	// second interest of the same object fails with common.ErrorConflict.
	UpdateStatus(ctx context.Context, objectID, memberID int64, status string, notificationShown bool) error
	MarkNotificationShown(ctx context.Context, objectID, memberID int64) error
}
