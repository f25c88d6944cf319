// Package service executes summary table requests: it builds the aggregate
// statement, runs the single storage round-trip, and shapes the rows into
// the response table.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"awardsreport/internal/summary/models"
	"awardsreport/internal/summary/query"
	dErrors "awardsreport/pkg/domain-errors"
)

// Service runs summary aggregations against the transactions table. It is
// stateless apart from the connection pool and safe for concurrent use.
type Service struct {
	db     *sql.DB
	logger *slog.Logger
}

// New constructs a summary service.
func New(db *sql.DB, logger *slog.Logger) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, logger: logger}, nil
}

// SummaryTable builds and executes the aggregation for a validated request
// and returns the formatted table. Storage failures surface as internal
// errors; the query is read-only so callers may retry the whole request.
func (s *Service) SummaryTable(ctx context.Context, gb models.GroupKey, f models.FilterSet, limit int) (*models.Table, error) {
	stmt, args, err := query.BuildSummary(gb, f, limit)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "executing summary query", "sql", stmt, "args", len(args))

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "execute summary query", err)
	}
	defer rows.Close()

	width := len(gb) + 1
	var results []models.ResultRow
	for rows.Next() {
		values := make([]any, width)
		ptrs := make([]any, width)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "scan summary row", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		results = append(results, values)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "read summary rows", err)
	}

	return BuildTable(gb, results)
}
