package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"awardsreport/internal/transactions"
)

// Loan-type assistance transactions measure spending as subsidy cost rather
// than face value.
const loanTypeCodes = "('07', '08')"

// Deriver runs the post-load derivation pass: normalized obligation amounts,
// action date year/month columns, award summary keys, and the unified
// transactions table rebuild. It is a batch, single-writer job.
type Deriver struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDeriver constructs a deriver.
func NewDeriver(db *sql.DB, logger *slog.Logger) (*Deriver, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{db: db, logger: logger}, nil
}

// generatedObligationsSQL sets generated_pragmatic_obligations. Assistance
// loans (type codes 07/08) take the original loan subsidy cost; everything
// else takes the federal action obligation.
func generatedObligationsSQL(table string) (string, error) {
	switch table {
	case "assistance_transactions":
		return `UPDATE assistance_transactions SET generated_pragmatic_obligations = CASE
			WHEN assistance_type_code IN ` + loanTypeCodes + ` THEN original_loan_subsidy_cost
			ELSE federal_action_obligation END`, nil
	case "procurement_transactions":
		return "UPDATE procurement_transactions SET generated_pragmatic_obligations = federal_action_obligation", nil
	default:
		return "", fmt.Errorf("unknown transactions table %q", table)
	}
}

// actionDateSQL sets action_date_year, action_date_month, and
// action_date_year_month from action_date.
func actionDateSQL(table string) (string, error) {
	if table != "assistance_transactions" && table != "procurement_transactions" {
		return "", fmt.Errorf("unknown transactions table %q", table)
	}
	return fmt.Sprintf(`UPDATE %s SET
		action_date_year = EXTRACT(YEAR FROM action_date),
		action_date_month = EXTRACT(MONTH FROM action_date),
		action_date_year_month = TO_CHAR(action_date, 'YYYY-MM')`, table), nil
}

// awardSummaryKeySQL sets award_summary_unique_key from the type-specific
// award key column.
func awardSummaryKeySQL(table string) (string, error) {
	switch table {
	case "assistance_transactions":
		return "UPDATE assistance_transactions SET award_summary_unique_key = assistance_award_unique_key", nil
	case "procurement_transactions":
		return "UPDATE procurement_transactions SET award_summary_unique_key = contract_award_unique_key", nil
	default:
		return "", fmt.Errorf("unknown transactions table %q", table)
	}
}

// unifiedColumns is the column set copied into the unified transactions
// table. Type-specific columns are null for rows of the other category.
var unifiedColumns = []string{
	"action_date",
	"awarding_agency_code",
	"awarding_agency_name",
	"federal_action_obligation",
	"primary_place_of_performance_state_name",
	"prime_award_transaction_place_of_performance_county_fips_code",
	"recipient_name",
	"recipient_uei",
	"usaspending_permalink",
	"assistance_award_unique_key",
	"assistance_transaction_unique_key",
	"assistance_type_code",
	"cfda_number",
	"cfda_title",
	"original_loan_subsidy_cost",
	"contract_award_unique_key",
	"contract_transaction_unique_key",
	"naics_code",
	"naics_description",
	"product_or_service_code",
	"product_or_service_code_description",
	"generated_pragmatic_obligations",
	"action_date_month",
	"action_date_year",
	"action_date_year_month",
	"award_summary_unique_key",
}

// rebuildTransactionsSQL returns the statements that rebuild the unified
// transactions table from both source tables.
func rebuildTransactionsSQL() []string {
	cols := strings.Join(unifiedColumns, ", ")
	selectFrom := func(source string, has map[string]bool) string {
		exprs := make([]string, 0, len(unifiedColumns))
		for _, c := range unifiedColumns {
			if has[c] {
				exprs = append(exprs, c)
			} else {
				exprs = append(exprs, "NULL AS "+c)
			}
		}
		return fmt.Sprintf("INSERT INTO transactions(%s) SELECT %s FROM %s",
			cols, strings.Join(exprs, ", "), source)
	}

	return []string{
		"TRUNCATE transactions",
		selectFrom("assistance_transactions", columnSet(transactions.AssistanceRawColumns())),
		selectFrom("procurement_transactions", columnSet(transactions.ProcurementRawColumns())),
	}
}

var derivedColumns = []string{
	"generated_pragmatic_obligations",
	"action_date_month",
	"action_date_year",
	"action_date_year_month",
	"award_summary_unique_key",
}

func columnSet(raw []string) map[string]bool {
	has := make(map[string]bool, len(raw)+len(derivedColumns))
	for _, c := range raw {
		has[c] = true
	}
	for _, c := range derivedColumns {
		has[c] = true
	}
	return has
}

// Run executes the full derivation pass in one transaction so readers never
// observe a half-derived table set.
func (d *Deriver) Run(ctx context.Context) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin derivation tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"assistance_transactions", "procurement_transactions"} {
		for _, build := range []func(string) (string, error){
			generatedObligationsSQL, actionDateSQL, awardSummaryKeySQL,
		} {
			stmt, err := build(table)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, stmt)
			if err != nil {
				return fmt.Errorf("derive %s: %w", table, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				d.logger.InfoContext(ctx, "derivation applied", "table", table, "rows", n)
			}
		}
	}

	for _, stmt := range rebuildTransactionsSQL() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rebuild transactions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit derivation tx: %w", err)
	}
	d.logger.InfoContext(ctx, "derivation pass complete")
	return nil
}
