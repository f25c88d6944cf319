package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awardsreport/internal/summary/models"
	dErrors "awardsreport/pkg/domain-errors"
)

func TestBuildTableSchemaBlock(t *testing.T) {
	table, err := BuildTable(models.GroupKey{"cfda", "awag"}, nil)
	require.NoError(t, err)

	require.Len(t, table.Schema.Fields, 3)
	assert.Equal(t, models.SchemaField{Name: "cfda", Title: "CFDA Number", Type: "string"}, table.Schema.Fields[0])
	assert.Equal(t, models.SchemaField{Name: "awag", Title: "Awarding Agency Name", Type: "string"}, table.Schema.Fields[1])
	assert.Equal(t, models.SchemaField{Name: "obligations", Title: "Total Spending", Type: "number"}, table.Schema.Fields[2])
}

func TestBuildTablePreservesRowCountAndOrder(t *testing.T) {
	rows := []models.ResultRow{
		{"00.001", "awag2", 3.0},
		{"00.000", "awag1", 2.5},
		{"00.002", "awag3", -1.0},
	}
	table, err := BuildTable(models.GroupKey{"cfda", "awag"}, rows)
	require.NoError(t, err)

	require.Len(t, table.Data, len(rows))
	assert.Equal(t, "00.001", table.Data[0]["cfda"])
	assert.Equal(t, "00.000", table.Data[1]["cfda"])
	assert.Equal(t, "00.002", table.Data[2]["cfda"])
}

func TestBuildTableNegativeSumsPassThrough(t *testing.T) {
	// de-obligations produce negative sums; the formatter must not clamp
	table, err := BuildTable(models.GroupKey{"awag"}, []models.ResultRow{{"agency", -125.5}})
	require.NoError(t, err)

	require.Len(t, table.Data, 1)
	assert.Equal(t, -125.5, table.Data[0]["obligations"])
}

func TestBuildTableEmptyRows(t *testing.T) {
	table, err := BuildTable(models.GroupKey{"y"}, nil)
	require.NoError(t, err)
	assert.Empty(t, table.Data)
	assert.Len(t, table.Schema.Fields, 2)
}

func TestBuildTableRowValues(t *testing.T) {
	table, err := BuildTable(models.GroupKey{"y", "awag"}, []models.ResultRow{
		{int64(2023), "Department of Tests", 42.0},
	})
	require.NoError(t, err)

	row := table.Data[0]
	assert.Equal(t, int64(2023), row["y"])
	assert.Equal(t, "Department of Tests", row["awag"])
	assert.Equal(t, 42.0, row["obligations"])
}

func TestBuildTableWidthMismatch(t *testing.T) {
	_, err := BuildTable(models.GroupKey{"y"}, []models.ResultRow{{"only-one-value"}})
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvariantViolation, dErrors.CodeOf(err))
}

func TestBuildTableUnknownKey(t *testing.T) {
	_, err := BuildTable(models.GroupKey{"fake"}, nil)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvariantViolation, dErrors.CodeOf(err))
}
