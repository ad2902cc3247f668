package interests

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/donnamis/internal/common"
	"github.com/dmitrijs2005/donnamis/internal/dbx"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

const selectInterest = `SELECT i.id_object, i.id_member, i.status, i.notification_shown, i.created_at
  FROM interests i`

const selectInterestWithObject = `SELECT i.id_object, i.id_member, i.status, i.notification_shown, i.created_at,
       o.description, o.status, o.image, o.id_offeror, t.id_type, t.type_name, t.is_default
  FROM interests i
  JOIN objects o ON o.id_object = i.id_object
  JOIN types t ON t.id_type = o.id_type`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, objectID, memberID int64) (*models.Interest, error) {
	return r.getOne(ctx, selectInterest+` WHERE i.id_object = $1 AND i.id_member = $2`, objectID, memberID)
}

func (r *PostgresRepository) GetAssigned(ctx context.Context, objectID int64) (*models.Interest, error) {
	return r.getOne(ctx, selectInterest+` WHERE i.id_object = $1 AND i.status = 'assigned'`, objectID)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Interest, error) {
	in := &models.Interest{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&in.ObjectID, &in.MemberID, &in.Status, &in.NotificationShown, &in.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}
	return in, nil
}

func (r *PostgresRepository) Create(ctx context.Context, interest *models.Interest) (*models.Interest, error) {
	if interest.Status == "" {
		interest.Status = models.InterestStatusInterested
	}
	interest.NotificationShown = true

	query := `
		INSERT INTO interests (id_object, id_member, status, notification_shown)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		interest.ObjectID, interest.MemberID, interest.Status, interest.NotificationShown,
	).Scan(&interest.CreatedAt)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return interest, nil
}

func (r *PostgresRepository) GetAllByObject(ctx context.Context, objectID int64) ([]*models.Interest, error) {
	query := selectInterest + ` WHERE i.id_object = $1 ORDER BY i.created_at, i.id_member`

	rows, err := r.db.QueryContext(ctx, query, objectID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	result := []*models.Interest{}
	for rows.Next() {
		in := &models.Interest{}
		if err := rows.Scan(&in.ObjectID, &in.MemberID, &in.Status, &in.NotificationShown, &in.CreatedAt); err != nil {
			return nil, dbx.WrapError(err)
		}
		result = append(result, in)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByMember(ctx context.Context, memberID int64) ([]*models.Interest, error) {
	query := selectInterestWithObject + ` WHERE i.id_member = $1 ORDER BY i.created_at DESC`
	return r.getWithObjects(ctx, query, memberID)
}

func (r *PostgresRepository) GetNotifications(ctx context.Context, memberID int64) ([]*models.Interest, error) {
	query := selectInterestWithObject + ` WHERE i.id_member = $1 AND NOT i.notification_shown
   AND i.status IN ('assigned', 'published')
 ORDER BY i.created_at`
	return r.getWithObjects(ctx, query, memberID)
}

func (r *PostgresRepository) getWithObjects(ctx context.Context, query string, args ...any) ([]*models.Interest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	result := []*models.Interest{}
	for rows.Next() {
		in := &models.Interest{Object: &models.Object{Type: &models.Type{}}}
		var image sql.NullString
		err := rows.Scan(&in.ObjectID, &in.MemberID, &in.Status, &in.NotificationShown, &in.CreatedAt,
			&in.Object.Description, &in.Object.Status, &image, &in.Object.OfferorID,
			&in.Object.Type.ID, &in.Object.Type.Name, &in.Object.Type.IsDefault)
		if err != nil {
			return nil, dbx.WrapError(err)
		}
		in.Object.ID = in.ObjectID
		in.Object.Image = image.String
		result = append(result, in)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, objectID, memberID int64, status string, notificationShown bool) error {
	query := `UPDATE interests SET status = $1, notification_shown = $2 WHERE id_object = $3 AND id_member = $4`
	return dbx.ExecOne(ctx, r.db, query, status, notificationShown, objectID, memberID)
}

// MarkNotificationShown is idempotent; only an unknown pair is an error.
func (r *PostgresRepository) MarkNotificationShown(ctx context.Context, objectID, memberID int64) error {
	query := `UPDATE interests SET notification_shown = TRUE WHERE id_object = $1 AND id_member = $2`
	return dbx.ExecOne(ctx, r.db, query, objectID, memberID)
}
