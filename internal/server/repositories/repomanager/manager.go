package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/donnamis/internal/dbx"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/interests"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/members"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/objects"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/offers"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/types"
)

// RepositoryManager vends repositories bound to a DBTX. Passing the same
// transaction to several factories makes their calls one atomic unit.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Members(db dbx.DBTX) members.Repository
	Types(db dbx.DBTX) types.Repository
	Objects(db dbx.DBTX) objects.Repository
	Offers(db dbx.DBTX) offers.Repository
	Interests(db dbx.DBTX) interests.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
