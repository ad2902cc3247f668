package dbx

import (
	"testing"

	"github.com/dmitrijs2005/donnamis/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignments_Update(t *testing.T) {
	var a Assignments
	a.SetString("lastname", "")
	a.SetString("phone_number", "0470000000")
	a.SetString("firstname", "   ")
	a.Set("status", "valid")

	q, args, err := a.Update("members", "id_member", int64(7), "id_member")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE members SET phone_number = $1, status = $2 WHERE id_member = $3 RETURNING id_member", q)
	assert.Equal(t, []any{"0470000000", "valid", int64(7)}, args)
	assert.Equal(t, 2, a.Len())
}

func TestAssignments_NoReturning(t *testing.T) {
	var a Assignments
	a.Set("image", "k")

	q, args, err := a.Update("members", "id_member", int64(1), "")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE members SET image = $1 WHERE id_member = $2", q)
	assert.Len(t, args, 2)
}

func TestAssignments_Empty(t *testing.T) {
	var a Assignments
	a.SetString("lastname", "")

	_, _, err := a.Update("members", "id_member", int64(1), "")
	assert.ErrorIs(t, err, common.ErrorNothingToUpdate)
}
