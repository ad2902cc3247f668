package objects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/donnamis/internal/common"
	"github.com/dmitrijs2005/donnamis/internal/dbx"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Object, error) {
	query := `
		SELECT o.id_object, o.description, o.status, o.image, o.id_offeror,
		       t.id_type, t.type_name, t.is_default
		FROM objects o
		JOIN types t ON t.id_type = o.id_type
		WHERE o.id_object = $1
	`
	o := &models.Object{Type: &models.Type{}}
	var image sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Description, &o.Status, &image, &o.OfferorID,
		&o.Type.ID, &o.Type.Name, &o.Type.IsDefault)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}
	o.Image = image.String
	return o, nil
}

func (r *PostgresRepository) Create(ctx context.Context, object *models.Object) (*models.Object, error) {
	if object.Type == nil || object.Type.ID == 0 {
		return nil, fmt.Errorf("%w: object type is not resolved", common.ErrorBadInput)
	}
	if object.Status == "" {
		object.Status = models.ObjectStatusAvailable
	}

	query := `
		INSERT INTO objects (id_type, description, status, image, id_offeror)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_object
	`
	image := sql.NullString{String: object.Image, Valid: object.Image != ""}
	err := r.db.QueryRowContext(ctx, query,
		object.Type.ID, object.Description, object.Status, image, object.OfferorID,
	).Scan(&object.ID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return object, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return dbx.ExecOne(ctx, r.db, `UPDATE objects SET status = $1 WHERE id_object = $2`, status, id)
}

func (r *PostgresRepository) UpdateOne(ctx context.Context, object *models.Object) error {
	var set dbx.Assignments
	set.SetString("description", object.Description)
	set.SetString("image", object.Image)
	set.SetString("status", object.Status)
	if object.Type != nil && object.Type.ID != 0 {
		set.Set("id_type", object.Type.ID)
	}

	query, args, err := set.Update("objects", "id_object", object.ID, "")
	if err != nil {
		return err
	}
	return dbx.ExecOne(ctx, r.db, query, args...)
}
