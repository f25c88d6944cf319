package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedObligationsSQLAssistance(t *testing.T) {
	stmt, err := generatedObligationsSQL("assistance_transactions")
	require.NoError(t, err)

	assert.Contains(t, stmt, "assistance_type_code IN ('07', '08')")
	assert.Contains(t, stmt, "THEN original_loan_subsidy_cost")
	assert.Contains(t, stmt, "ELSE federal_action_obligation")
}

func TestGeneratedObligationsSQLProcurement(t *testing.T) {
	stmt, err := generatedObligationsSQL("procurement_transactions")
	require.NoError(t, err)

	assert.Contains(t, stmt, "generated_pragmatic_obligations = federal_action_obligation")
	assert.NotContains(t, stmt, "CASE")
}

func TestActionDateSQL(t *testing.T) {
	for _, table := range []string{"assistance_transactions", "procurement_transactions"} {
		stmt, err := actionDateSQL(table)
		require.NoError(t, err)

		assert.Contains(t, stmt, "UPDATE "+table)
		assert.Contains(t, stmt, "EXTRACT(YEAR FROM action_date)")
		assert.Contains(t, stmt, "EXTRACT(MONTH FROM action_date)")
		assert.Contains(t, stmt, "TO_CHAR(action_date, 'YYYY-MM')")
	}
}

func TestAwardSummaryKeySQL(t *testing.T) {
	stmt, err := awardSummaryKeySQL("assistance_transactions")
	require.NoError(t, err)
	assert.Contains(t, stmt, "award_summary_unique_key = assistance_award_unique_key")

	stmt, err = awardSummaryKeySQL("procurement_transactions")
	require.NoError(t, err)
	assert.Contains(t, stmt, "award_summary_unique_key = contract_award_unique_key")
}

func TestDeriveSQLRejectsUnknownTables(t *testing.T) {
	for _, build := range []func(string) (string, error){
		generatedObligationsSQL, actionDateSQL, awardSummaryKeySQL,
	} {
		_, err := build("transactions")
		assert.Error(t, err)
	}
}

func TestRebuildTransactionsSQL(t *testing.T) {
	stmts := rebuildTransactionsSQL()
	require.Len(t, stmts, 3)

	assert.Equal(t, "TRUNCATE transactions", stmts[0])

	assistance := stmts[1]
	assert.Contains(t, assistance, "FROM assistance_transactions")
	assert.Contains(t, assistance, "NULL AS naics_code")
	assert.Contains(t, assistance, "NULL AS contract_award_unique_key")
	assert.NotContains(t, assistance, "NULL AS cfda_number")
	assert.NotContains(t, assistance, "NULL AS generated_pragmatic_obligations")

	procurement := stmts[2]
	assert.Contains(t, procurement, "FROM procurement_transactions")
	assert.Contains(t, procurement, "NULL AS cfda_number")
	assert.Contains(t, procurement, "NULL AS original_loan_subsidy_cost")
	assert.NotContains(t, procurement, "NULL AS naics_code")
	assert.NotContains(t, procurement, "NULL AS action_date_year_month")
}

func TestRebuildTransactionsSQLColumnWidths(t *testing.T) {
	for _, stmt := range rebuildTransactionsSQL()[1:] {
		insert := stmt[strings.Index(stmt, "(")+1 : strings.Index(stmt, ")")]
		assert.Len(t, strings.Split(insert, ", "), len(unifiedColumns))
	}
}
