package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incentive-service/internal/incentive/model"
)

func row(cells ...any) []any { return cells }

func TestResolveHeaderAtConfiguredRow(t *testing.T) {
	rows := [][]any{
		row("Sree Lakshmi Silks"),
		row(),
		row("Daily Sales Report"),
		row("Salesman Name", "Item Group", "Mobile No", "Date", "Voucher No"),
		row("Ravi", "Sarees", "9876500001", "2023-03-15", "V-1"),
	}
	hm, err := ResolveHeader(rows, 4, DefaultAliases())
	require.NoError(t, err)
	assert.Equal(t, 3, hm.Row)
	assert.Equal(t, 0, hm.Columns[FieldSalesperson])
	assert.Equal(t, 1, hm.Columns[FieldDepartment])
	assert.Equal(t, 2, hm.Columns[FieldCustomer])
	assert.Equal(t, 3, hm.Columns[FieldDate])
	assert.Equal(t, 4, hm.Columns[FieldVoucher])
}

func TestResolveHeaderFallsBackToFirstNonBlankRow(t *testing.T) {
	rows := [][]any{
		row("Sales Person", "Department", "Customer Id"),
		row("Ravi", "Sarees", "C-1"),
	}
	// configured row 6 does not exist; fallback finds row 0
	hm, err := ResolveHeader(rows, 6, DefaultAliases())
	require.NoError(t, err)
	assert.Equal(t, 0, hm.Row)
}

func TestResolveHeaderSubstringMatch(t *testing.T) {
	rows := [][]any{
		row("Name of Sales Person", "Item Group / Dept", "Customer Mobile No"),
		row("Ravi", "Sarees", "9876500001"),
	}
	hm, err := ResolveHeader(rows, 1, DefaultAliases())
	require.NoError(t, err)
	assert.Len(t, hm.Columns, 3)
}

func TestResolveHeaderMissingColumns(t *testing.T) {
	rows := [][]any{
		row("Salesman Name", "Qty", "Rate"),
		row("Ravi", "2", "100"),
	}
	_, err := ResolveHeader(rows, 1, DefaultAliases())
	var missing *model.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.ElementsMatch(t, []string{"department", "customer"}, missing.Missing)
	assert.Contains(t, missing.Headers, "Salesman Name")
}

func TestResolveHeaderEmptySheet(t *testing.T) {
	_, err := ResolveHeader([][]any{row(""), row(nil, "")}, 1, DefaultAliases())
	var structural *model.StructuralError
	require.True(t, errors.As(err, &structural))

	_, err = ResolveHeader(nil, 1, DefaultAliases())
	require.True(t, errors.As(err, &structural))
}
