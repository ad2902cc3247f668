// Package refreshtokens declares the storage contract for the long-lived
// tokens issued to members who asked to be remembered.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

type Repository interface {
	// Create stores token for memberID, valid until now+validity.
	Create(ctx context.Context, memberID int64, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes the token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}
