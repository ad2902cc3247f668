// Package objects stores the offered items.
package objects

import (
	"context"

	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

type Repository interface {
	// GetByID returns the object with its type.
	GetByID(ctx context.Context, id int64) (*models.Object, error)
	// Create expects object.Type to carry a resolved type id.
	Create(ctx context.Context, object *models.Object) (*models.Object, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// UpdateOne writes description, image and type when set.
	UpdateOne(ctx context.Context, object *models.Object) error
}
