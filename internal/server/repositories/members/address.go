package members

import (
	"context"

	"github.com/dmitrijs2005/donnamis/internal/dbx"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

func (r *PostgresRepository) createAddress(ctx context.Context, a *models.Address) error {
	query :=
		`INSERT INTO addresses (id_member, unit_number, building_number, street, postcode, commune, country)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		a.MemberID, nullString(a.UnitNumber), a.BuildingNumber, a.Street, a.Postcode, a.Commune, a.Country)
	if err != nil {
		return dbx.WrapError(err)
	}
	return nil
}

func addressAssignments(a *models.Address) dbx.Assignments {
	var set dbx.Assignments
	set.SetString("unit_number", a.UnitNumber)
	set.SetString("building_number", a.BuildingNumber)
	set.SetString("street", a.Street)
	set.SetString("postcode", a.Postcode)
	set.SetString("commune", a.Commune)
	set.SetString("country", a.Country)
	return set
}
