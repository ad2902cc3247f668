// Package members maps the members and addresses tables.
package members

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/donnamis/internal/common"
	"github.com/dmitrijs2005/donnamis/internal/dbx"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

const selectMember = `SELECT m.id_member, m.username, m.lastname, m.firstname, m.status, m.role,
       m.phone_number, m.password, m.refusal_reason, m.image,
       a.id_member, a.unit_number, a.building_number, a.street, a.postcode, a.commune, a.country
  FROM members m
  LEFT JOIN addresses a ON a.id_member = m.id_member`

// PostgresRepository implements member storage over a dbx.DBTX (*sql.DB or a transaction).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Member, error) {
	return r.getOne(ctx, selectMember+` WHERE m.username = $1`, username)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	return r.getOne(ctx, selectMember+` WHERE m.id_member = $1`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Member, error) {
	member, err := scanMember(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}
	return member, nil
}

// GetAll searches first name, last name and username (case-insensitive
// substring). status is one of the member statuses or "waiting" (anything not
// valid); any other value applies no status filter.
func (r *PostgresRepository) GetAll(ctx context.Context, search, status string) ([]*models.Member, error) {
	var (
		conds []string
		args  []any
	)

	switch status {
	case StatusWaiting:
		conds = append(conds, `m.status <> 'valid'`)
	case models.MemberStatusPending, models.MemberStatusDenied, models.MemberStatusValid:
		args = append(args, status)
		conds = append(conds, fmt.Sprintf(`m.status = $%d`, len(args)))
	}

	if search != "" {
		args = append(args, dbx.ContainsPattern(search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(lower(m.firstname) LIKE $%d ESCAPE '\' OR lower(m.lastname) LIKE $%d ESCAPE '\' OR lower(m.username) LIKE $%d ESCAPE '\')`, n, n, n))
	}

	query := selectMember
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY m.id_member`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	result := []*models.Member{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, dbx.WrapError(err)
		}
		result = append(result, member)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}
	return result, nil
}

// Create inserts the member and, when present, its address.
func (r *PostgresRepository) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	query :=
		`INSERT INTO members (username, lastname, firstname, status, role, phone_number, password, refusal_reason, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id_member`

	err := r.db.QueryRowContext(ctx, query,
		member.Username, member.Lastname, member.Firstname, member.Status, member.Role,
		nullString(member.Phone), member.Password, nullString(member.RefusalReason), nullString(member.Image),
	).Scan(&member.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapError(err)
	}

	if member.Address != nil {
		member.Address.MemberID = member.ID
		if err := r.createAddress(ctx, member.Address); err != nil {
			return nil, err
		}
	}

	return member, nil
}

// UpdateOne writes only the non-blank attributes of member (and of its
// address, if any). With nothing to write it returns common.ErrorNothingToUpdate
// without touching the database.
func (r *PostgresRepository) UpdateOne(ctx context.Context, member *models.Member) (*models.Member, error) {
	var set dbx.Assignments
	set.SetString("username", member.Username)
	set.SetString("lastname", member.Lastname)
	set.SetString("firstname", member.Firstname)
	set.SetString("status", member.Status)
	set.SetString("role", member.Role)
	set.SetString("phone_number", member.Phone)
	set.SetString("refusal_reason", member.RefusalReason)
	set.SetString("password", member.Password)
	set.SetString("image", member.Image)

	var addressSet dbx.Assignments
	if member.Address != nil {
		addressSet = addressAssignments(member.Address)
	}

	if set.Len() == 0 && addressSet.Len() == 0 {
		return nil, common.ErrorNothingToUpdate
	}

	if set.Len() > 0 {
		query, args, err := set.Update("members", "id_member", member.ID, "")
		if err != nil {
			return nil, err
		}
		if err := dbx.ExecOne(ctx, r.db, query, args...); err != nil {
			return nil, err
		}
	}

	if addressSet.Len() > 0 {
		query, args, err := addressSet.Update("addresses", "id_member", member.ID, "")
		if err != nil {
			return nil, err
		}
		if err := dbx.ExecOne(ctx, r.db, query, args...); err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, member.ID)
}

// UpdateStatus sets status and refusal reason together; an empty reason
// clears the column.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status, refusalReason string) (*models.Member, error) {
	query := `UPDATE members SET status = $1, refusal_reason = $2 WHERE id_member = $3`
	if err := dbx.ExecOne(ctx, r.db, query, status, nullString(refusalReason), id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (*models.Member, error) {
	var (
		m                                models.Member
		phone, reason, image             sql.NullString
		addrID                           sql.NullInt64
		unit, building, street, postcode sql.NullString
		commune, country                 sql.NullString
	)

	err := row.Scan(&m.ID, &m.Username, &m.Lastname, &m.Firstname, &m.Status, &m.Role,
		&phone, &m.Password, &reason, &image,
		&addrID, &unit, &building, &street, &postcode, &commune, &country)
	if err != nil {
		return nil, err
	}

	m.Phone = phone.String
	m.RefusalReason = reason.String
	m.Image = image.String
	if addrID.Valid {
		m.Address = &models.Address{
			MemberID:       addrID.Int64,
			UnitNumber:     unit.String,
			BuildingNumber: building.String,
			Street:         street.String,
			Postcode:       postcode.String,
			Commune:        commune.String,
			Country:        country.String,
		}
	}
	return &m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
