package types

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

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Type, error) {
	return r.getOne(ctx, `SELECT id_type, type_name, is_default FROM types WHERE id_type = $1`, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Type, error) {
	return r.getOne(ctx, `SELECT id_type, type_name, is_default FROM types WHERE type_name = $1`, name)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Type, error) {
	t := &models.Type{}
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Name, &t.IsDefault); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}
	return t, nil
}

func (r *PostgresRepository) GetDefaults(ctx context.Context) ([]*models.Type, error) {
	query := `SELECT id_type, type_name, is_default FROM types WHERE is_default ORDER BY type_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	result := []*models.Type{}
	for rows.Next() {
		t := &models.Type{}
		if err := rows.Scan(&t.ID, &t.Name, &t.IsDefault); err != nil {
			return nil, dbx.WrapError(err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}
	return result, nil
}

// Create fails with common.ErrorConflict when the name is already registered.
// A duplicate is skipped rather than raised so the enclosing transaction stays
// usable.
func (r *PostgresRepository) Create(ctx context.Context, name string) (*models.Type, error) {
	query := `INSERT INTO types (type_name, is_default) VALUES ($1, FALSE)
		ON CONFLICT (type_name) DO NOTHING RETURNING id_type`

	t := &models.Type{Name: name}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&t.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: type %q already exists", common.ErrorConflict, name)
	}
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return t, nil
}
