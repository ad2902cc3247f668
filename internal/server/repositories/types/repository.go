// Package types stores object categories.
package types

import (
	"context"

	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Type, error)
	// GetByName matches the name exactly; names are unique.
	GetByName(ctx context.Context, name string) (*models.Type, error)
	GetDefaults(ctx context.Context) ([]*models.Type, error)
	// Create registers a member-introduced (non default) type.
	Create(ctx context.Context, name string) (*models.Type, error)
}
