package dbx

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/donnamis/internal/common"
)

// Assignments collects the (column, value) pairs of a partial UPDATE.
// Their order decides the placeholder numbering of the statement.
type Assignments struct {
	columns []string
	args    []any
}

// Set always adds column = value.
func (a *Assignments) Set(column string, value any) {
	a.columns = append(a.columns, column)
	a.args = append(a.args, value)
}

// SetString adds column = value unless value is blank.
func (a *Assignments) SetString(column, value string) {
	if common.IsBlank(value) {
		return
	}
	a.Set(column, value)
}

// Len returns the number of collected assignments.
func (a *Assignments) Len() int { return len(a.columns) }

// Update renders
//
//	UPDATE table SET c1 = $1, ..., cn = $n WHERE key = $n+1 [RETURNING ...]
//
// and its arguments. With no assignments it returns common.ErrorNothingToUpdate.
func (a *Assignments) Update(table, keyColumn string, key any, returning string) (string, []any, error) {
	if len(a.columns) == 0 {
		return "", nil, common.ErrorNothingToUpdate
	}

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	for i, c := range a.columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s = $%d", c, i+1)
	}
	fmt.Fprintf(&b, " WHERE %s = $%d", keyColumn, len(a.columns)+1)
	if returning != "" {
		b.WriteString(" RETURNING ")
		b.WriteString(returning)
	}

	args := make([]any, 0, len(a.args)+1)
	args = append(args, a.args...)
	args = append(args, key)
	return b.String(), args, nil
}
