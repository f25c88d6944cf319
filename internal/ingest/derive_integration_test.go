//go:build integration

package ingest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awardsreport/pkg/testutil/containers"
)

func TestDeriverIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pc := containers.NewPostgresContainer(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deriver, err := NewDeriver(pc.DB, logger)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = pc.DB.ExecContext(ctx, `
		INSERT INTO assistance_transactions (
			assistance_award_unique_key, assistance_type_code,
			federal_action_obligation, original_loan_subsidy_cost, action_date
		) VALUES
			('ASST_NON_000001', '02', 50, NULL, '2023-04-15'),
			('ASST_NON_000002', '07', 100, 5, '2023-04-20')`)
	require.NoError(t, err)

	_, err = pc.DB.ExecContext(ctx, `
		INSERT INTO procurement_transactions (
			contract_award_unique_key, federal_action_obligation, action_date
		) VALUES ('CONT_AWD_000001', 75, '2022-11-02')`)
	require.NoError(t, err)

	require.NoError(t, deriver.Run(ctx))

	t.Run("loans take subsidy cost", func(t *testing.T) {
		var grant, loan float64
		require.NoError(t, pc.DB.QueryRowContext(ctx,
			`SELECT generated_pragmatic_obligations FROM assistance_transactions
			 WHERE assistance_award_unique_key = 'ASST_NON_000001'`).Scan(&grant))
		require.NoError(t, pc.DB.QueryRowContext(ctx,
			`SELECT generated_pragmatic_obligations FROM assistance_transactions
			 WHERE assistance_award_unique_key = 'ASST_NON_000002'`).Scan(&loan))

		assert.Equal(t, 50.0, grant)
		assert.Equal(t, 5.0, loan)
	})

	t.Run("contracts take face value", func(t *testing.T) {
		var got float64
		require.NoError(t, pc.DB.QueryRowContext(ctx,
			`SELECT generated_pragmatic_obligations FROM procurement_transactions`).Scan(&got))
		assert.Equal(t, 75.0, got)
	})

	t.Run("action date columns", func(t *testing.T) {
		var year, month int
		var ym string
		require.NoError(t, pc.DB.QueryRowContext(ctx,
			`SELECT action_date_year, action_date_month, action_date_year_month
			 FROM assistance_transactions
			 WHERE assistance_award_unique_key = 'ASST_NON_000001'`).Scan(&year, &month, &ym))

		assert.Equal(t, 2023, year)
		assert.Equal(t, 4, month)
		assert.Equal(t, "2023-04", ym)
	})

	t.Run("award summary keys", func(t *testing.T) {
		var key string
		require.NoError(t, pc.DB.QueryRowContext(ctx,
			`SELECT award_summary_unique_key FROM procurement_transactions`).Scan(&key))
		assert.Equal(t, "CONT_AWD_000001", key)
	})

	t.Run("unified table holds both categories", func(t *testing.T) {
		var total, assistance, procurement int
		require.NoError(t, pc.DB.QueryRowContext(ctx,
			`SELECT COUNT(*),
			        COUNT(assistance_award_unique_key),
			        COUNT(contract_award_unique_key)
			 FROM transactions`).Scan(&total, &assistance, &procurement))

		assert.Equal(t, 3, total)
		assert.Equal(t, 2, assistance)
		assert.Equal(t, 1, procurement)
	})

	t.Run("rerun is idempotent", func(t *testing.T) {
		require.NoError(t, deriver.Run(ctx))

		var total int
		require.NoError(t, pc.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM transactions`).Scan(&total))
		assert.Equal(t, 3, total)
	})
}
