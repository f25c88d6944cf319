package service

import (
	"awardsreport/internal/summary/fields"
	"awardsreport/internal/summary/models"
	dErrors "awardsreport/pkg/domain-errors"
)

// BuildTable shapes executed query rows into the summary table response:
// one schema descriptor per group key plus the trailing obligations column,
// and one data row per input row. Rows keep their input order; sums pass
// through with whatever sign they carry.
func BuildTable(gb models.GroupKey, rows []models.ResultRow) (*models.Table, error) {
	schema, err := buildSchemaFields(gb)
	if err != nil {
		return nil, err
	}

	data := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(gb)+1 {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation,
				"result row has %d values, want %d", len(row), len(gb)+1)
		}
		r := make(models.Row, len(gb)+1)
		for i, key := range gb {
			r[key] = row[i]
		}
		r[models.ObligationsColumn] = row[len(gb)]
		data = append(data, r)
	}

	return &models.Table{Schema: schema, Data: data}, nil
}

func buildSchemaFields(gb models.GroupKey) (models.SchemaFields, error) {
	out := make([]models.SchemaField, 0, len(gb)+1)
	for _, key := range gb {
		spec, ok := fields.GroupBy(key)
		if !ok {
			return models.SchemaFields{}, dErrors.Newf(dErrors.CodeInvariantViolation,
				"group by key %q missing from registry", key)
		}
		out = append(out, models.SchemaField{Name: key, Title: spec.Title, Type: string(spec.Type)})
	}
	out = append(out, models.SchemaField{
		Name:  models.ObligationsColumn,
		Title: "Total Spending",
		Type:  string(fields.TypeNumber),
	})
	return models.SchemaFields{Fields: out}, nil
}
