// Package query builds the grouped/summed/ordered/limited aggregation
// statement for summary tables. Construction is pure: inputs go in, a SQL
// string and argument list come out, and execution stays with the caller.
package query

import (
	"github.com/Masterminds/squirrel"

	"awardsreport/internal/summary/fields"
	"awardsreport/internal/summary/models"
	dErrors "awardsreport/pkg/domain-errors"
)

const (
	table             = "transactions"
	obligationsColumn = "generated_pragmatic_obligations"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// filterOrder fixes the order filters are appended so identical filter sets
// always produce identical SQL and argument lists.
var filterOrder = []string{
	"atc", "awag", "awid", "cfda", "end_date", "naics", "ppopct",
	"ppopst", "psc", "start_date", "uei", "y", "ym",
}

// Predicate combines the populated filters into a single AND conjunction.
// Filters with no value contribute nothing; zero populated filters yield
// squirrel's empty And, which renders as a tautology.
func Predicate(f models.FilterSet) (squirrel.And, error) {
	conj := squirrel.And{}
	for _, key := range filterOrder {
		value, populated := filterValue(f, key)
		if !populated {
			continue
		}
		spec, ok := fields.Filter(key)
		if !ok {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "filter key %q missing from registry", key)
		}
		switch spec.Kind {
		case fields.KindIn:
			conj = append(conj, squirrel.Eq{spec.Column: value})
		case fields.KindGte:
			conj = append(conj, squirrel.GtOrEq{spec.Column: value})
		case fields.KindLte:
			conj = append(conj, squirrel.LtOrEq{spec.Column: value})
		}
	}
	return conj, nil
}

// BuildSummary produces the one aggregate statement for a validated request:
// resolved group columns in order plus the obligation sum, filtered by the
// combined predicate and by IS NOT NULL on every group column, grouped the
// same way, ordered by the sum descending with nulls last, and limited.
//
// Rows with a null value in any grouping dimension are excluded from every
// group rather than bucketed as unknown. Ties on the sum carry no secondary
// sort key; their relative order is engine-defined.
func BuildSummary(gb models.GroupKey, f models.FilterSet, limit int) (string, []any, error) {
	if len(gb) == 0 {
		return "", nil, dErrors.New(dErrors.CodeInvariantViolation, "group key must not be empty")
	}
	if limit <= 0 {
		limit = models.DefaultLimit
	}

	columns := make([]string, 0, len(gb))
	notNull := squirrel.And{}
	for _, key := range gb {
		spec, ok := fields.GroupBy(key)
		if !ok {
			return "", nil, dErrors.Newf(dErrors.CodeInvariantViolation, "group by key %q missing from registry", key)
		}
		columns = append(columns, spec.Column)
		notNull = append(notNull, squirrel.NotEq{spec.Column: nil})
	}

	predicate, err := Predicate(f)
	if err != nil {
		return "", nil, err
	}

	selectList := append(append([]string{}, columns...),
		"SUM("+obligationsColumn+") AS "+models.ObligationsColumn)

	return psql.Select(selectList...).
		From(table).
		Where(notNull).
		Where(predicate).
		GroupBy(columns...).
		OrderBy(models.ObligationsColumn + " DESC NULLS LAST").
		Limit(uint64(limit)).
		ToSql()
}

// filterValue extracts the value for key from f. The second return reports
// whether the filter is populated at all.
func filterValue(f models.FilterSet, key string) (any, bool) {
	switch key {
	case "atc":
		return f.ATC, len(f.ATC) > 0
	case "awag":
		return f.Awag, len(f.Awag) > 0
	case "awid":
		return f.Awid, len(f.Awid) > 0
	case "cfda":
		return f.CFDA, len(f.CFDA) > 0
	case "naics":
		return f.NAICS, len(f.NAICS) > 0
	case "ppopst":
		return f.PPoPSt, len(f.PPoPSt) > 0
	case "ppopct":
		return f.PPoPCt, len(f.PPoPCt) > 0
	case "psc":
		return f.PSC, len(f.PSC) > 0
	case "uei":
		return f.UEI, len(f.UEI) > 0
	case "y":
		return f.Years, len(f.Years) > 0
	case "ym":
		return f.YearMonths, len(f.YearMonths) > 0
	case "start_date":
		return f.StartDate, f.StartDate != ""
	case "end_date":
		return f.EndDate, f.EndDate != ""
	}
	return nil, false
}
