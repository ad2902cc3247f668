package offers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/donnamis/internal/common"
	"github.com/dmitrijs2005/donnamis/internal/dbx"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

const selectOffer = `SELECT f.id_offer, f.date, f.time_slot, f.status,
       o.id_object, o.description, o.status, o.image, o.id_offeror,
       t.id_type, t.type_name, t.is_default
  FROM offers f
  JOIN objects o ON o.id_object = f.id_object
  JOIN types t ON t.id_type = o.id_type`

// currentOffer keeps only the newest offer of each object.
const currentOffer = `f.id_offer = (SELECT max(c.id_offer) FROM offers c WHERE c.id_object = f.id_object)`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Offer, error) {
	return r.getOne(ctx, selectOffer+` WHERE f.id_offer = $1`, id)
}

func (r *PostgresRepository) GetActiveByObject(ctx context.Context, objectID int64) (*models.Offer, error) {
	return r.getOne(ctx, selectOffer+` WHERE f.id_object = $1 AND f.status <> 'cancelled'`, objectID)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Offer, error) {
	offer, err := scanOffer(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}
	return offer, nil
}

func (r *PostgresRepository) GetLast(ctx context.Context, limit int) ([]*models.Offer, error) {
	query := selectOffer + ` WHERE f.status = 'published' AND o.status = 'available'
  ORDER BY f.date DESC, f.id_offer DESC
  LIMIT $1`
	return r.getMany(ctx, query, limit)
}

// GetAll matches Search case-insensitively against the object description and
// type name. Type must equal the type name. An ObjectStatus outside the object
// statuses is ignored.
func (r *PostgresRepository) GetAll(ctx context.Context, filter models.OfferFilter) ([]*models.Offer, error) {
	var (
		conds = []string{currentOffer}
		args  []any
	)

	if filter.Search != "" {
		args = append(args, dbx.ContainsPattern(filter.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(lower(o.description) LIKE $%d ESCAPE '\' OR lower(t.type_name) LIKE $%d ESCAPE '\')`, n, n))
	}
	if filter.MemberID != 0 {
		args = append(args, filter.MemberID)
		conds = append(conds, fmt.Sprintf(`o.id_offeror = $%d`, len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf(`t.type_name = $%d`, len(args)))
	}
	if models.IsObjectStatus(filter.ObjectStatus) {
		args = append(args, filter.ObjectStatus)
		conds = append(conds, fmt.Sprintf(`o.status = $%d`, len(args)))
	}

	query := selectOffer + ` WHERE ` + strings.Join(conds, ` AND `) + ` ORDER BY f.date DESC, f.id_offer DESC`
	return r.getMany(ctx, query, args...)
}

func (r *PostgresRepository) GetGiven(ctx context.Context, receiverID int64) ([]*models.Offer, error) {
	query := selectOffer + `
  JOIN interests i ON i.id_object = o.id_object
 WHERE i.id_member = $1 AND i.status = 'assigned' AND o.status = 'given' AND ` + currentOffer + `
 ORDER BY f.date DESC, f.id_offer DESC`
	return r.getMany(ctx, query, receiverID)
}

func (r *PostgresRepository) getMany(ctx context.Context, query string, args ...any) ([]*models.Offer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	result := []*models.Offer{}
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, dbx.WrapError(err)
		}
		result = append(result, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}
	return result, nil
}

// Create inserts a published offer for offer.Object. A zero Date means today.
func (r *PostgresRepository) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if offer.Object == nil || offer.Object.ID == 0 {
		return nil, fmt.Errorf("%w: offer without object", common.ErrorBadInput)
	}
	if offer.Date.IsZero() {
		offer.Date = time.Now()
	}
	offer.Status = models.OfferStatusPublished

	query := `
		INSERT INTO offers (date, time_slot, status, id_object)
		VALUES ($1, $2, $3, $4)
		RETURNING id_offer
	`
	err := r.db.QueryRowContext(ctx, query, offer.Date, offer.TimeSlot, offer.Status, offer.Object.ID).Scan(&offer.ID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return offer, nil
}

func (r *PostgresRepository) UpdateTimeSlot(ctx context.Context, id int64, timeSlot string) error {
	var set dbx.Assignments
	set.SetString("time_slot", timeSlot)

	query, args, err := set.Update("offers", "id_offer", id, "")
	if err != nil {
		return err
	}
	return dbx.ExecOne(ctx, r.db, query, args...)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return dbx.ExecOne(ctx, r.db, `UPDATE offers SET status = $1 WHERE id_offer = $2`, status, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOffer(row scanner) (*models.Offer, error) {
	f := &models.Offer{Object: &models.Object{Type: &models.Type{}}}
	var image sql.NullString

	err := row.Scan(&f.ID, &f.Date, &f.TimeSlot, &f.Status,
		&f.Object.ID, &f.Object.Description, &f.Object.Status, &image, &f.Object.OfferorID,
		&f.Object.Type.ID, &f.Object.Type.Name, &f.Object.Type.IsDefault)
	if err != nil {
		return nil, err
	}
	f.Object.Image = image.String
	return f, nil
}
