// Package topline serves the fixed-shape headline aggregates: top awarding
// agencies by contract spending.
package topline

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	dErrors "awardsreport/pkg/domain-errors"
)

// DefaultLimit is the agency count returned when the request omits limit.
const DefaultLimit = 3

// AgencyObligation is one agency's summed contract spending.
type AgencyObligation struct {
	AwardingAgencyName string  `json:"awarding_agency_name"`
	Obligations        float64 `json:"obligations"`
}

// Service runs topline aggregations over procurement transactions.
type Service struct {
	db *sql.DB
}

// New constructs a topline service.
func New(db *sql.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &Service{db: db}, nil
}

// TopAgencyObligations returns the limit agencies with the largest summed
// federal action obligation, descending.
func (s *Service) TopAgencyObligations(ctx context.Context, limit int) ([]AgencyObligation, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	stmt, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("awarding_agency_name", "COALESCE(SUM(federal_action_obligation), 0) AS obligations").
		From("procurement_transactions").
		Where(squirrel.NotEq{"awarding_agency_name": nil}).
		GroupBy("awarding_agency_name").
		OrderBy("obligations DESC NULLS LAST").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "build topline query", err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "execute topline query", err)
	}
	defer rows.Close()

	out := make([]AgencyObligation, 0, limit)
	for rows.Next() {
		var a AgencyObligation
		if err := rows.Scan(&a.AwardingAgencyName, &a.Obligations); err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "scan topline row", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "read topline rows", err)
	}
	return out, nil
}
