package dbx

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/donnamis/internal/common"
)

// ExecOne runs a statement that must affect at least one row. Zero affected
// rows means the key does not exist and yields common.ErrorNotFound.
func ExecOne(ctx context.Context, db DBTX, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
