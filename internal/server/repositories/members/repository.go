package members

import (
	"context"

	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

// Status filters accepted by GetAll besides the member statuses themselves.
const StatusWaiting = "waiting"

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*models.Member, error)
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	GetAll(ctx context.Context, search, status string) ([]*models.Member, error)
	Create(ctx context.Context, member *models.Member) (*models.Member, error)
	UpdateOne(ctx context.Context, member *models.Member) (*models.Member, error)
	UpdateStatus(ctx context.Context, id int64, status, refusalReason string) (*models.Member, error)
}
