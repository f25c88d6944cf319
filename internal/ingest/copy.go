package ingest

import (
	"fmt"
	"strings"

	"awardsreport/internal/transactions"
)

// TableForFile maps a bulk download file name to its destination table and
// raw column set. File names containing "Assistance" load into
// assistance_transactions, "Contract" into procurement_transactions; any
// other name is a hard error rather than a guess.
func TableForFile(fname string) (string, []string, error) {
	switch {
	case strings.Contains(fname, "Assistance"):
		return "assistance_transactions", transactions.AssistanceRawColumns(), nil
	case strings.Contains(fname, "Contract"):
		return "procurement_transactions", transactions.ProcurementRawColumns(), nil
	default:
		return "", nil, fmt.Errorf("invalid file name %q: must contain 'Assistance' or 'Contract'", fname)
	}
}

// CopyFromSQL generates the COPY FROM STDIN statement loading fname's CSV
// into the table TableForFile resolves it to.
func CopyFromSQL(fname string) (string, error) {
	table, columns, err := TableForFile(fname)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("COPY %s(%s) FROM STDIN WITH (FORMAT CSV, HEADER)",
		table, strings.Join(columns, ", ")), nil
}
