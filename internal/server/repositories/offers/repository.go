// Package offers stores pickup proposals together with the object they offer.
package offers

import (
	"context"

	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

type Repository interface {
	// GetByID returns the offer with its object and type.
	GetByID(ctx context.Context, id int64) (*models.Offer, error)
	// GetLast returns the most recent published offers, newest first.
	GetLast(ctx context.Context, limit int) ([]*models.Offer, error)
	// GetAll returns the current offer of every object matching filter.
	GetAll(ctx context.Context, filter models.OfferFilter) ([]*models.Offer, error)
	// GetGiven returns the offers of objects given to receiverID.
	GetGiven(ctx context.Context, receiverID int64) ([]*models.Offer, error)
	// GetActiveByObject returns the non cancelled offer of an object.
	GetActiveByObject(ctx context.Context, objectID int64) (*models.Offer, error)
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	UpdateTimeSlot(ctx context.Context, id int64, timeSlot string) error
	UpdateStatus(ctx context.Context, id int64, status string) error
}
