// Package ingest implements the batch seed pipeline: it requests bulk award
// downloads from USAspending, loads the CSV extracts into Postgres with COPY,
// and derives the normalized summary columns the reporting API aggregates.
package ingest

import (
	"fmt"
	"time"

	"awardsreport/internal/transactions"
)

// PrimeAwardTypes is the full set of award type codes requested from the
// bulk download endpoint: contract and IDV types plus assistance types.
var PrimeAwardTypes = []string{
	"A", "B", "C", "D",
	"IDV_A", "IDV_B", "IDV_B_A", "IDV_B_B", "IDV_B_C", "IDV_C", "IDV_D", "IDV_E",
	"02", "03", "04", "05", "10", "06", "07", "08", "09", "11",
}

// DateRange is one start/end pair for a bulk download request. The endpoint
// rejects ranges longer than a year, so multi-year loads are chunked.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// PayloadAgency selects awarding agencies for a download request.
type PayloadAgency struct {
	Type string `json:"type"`
	Tier string `json:"tier"`
	Name string `json:"name"`
}

// PayloadFilters are the filters of one bulk download request.
type PayloadFilters struct {
	PrimeAwardTypes []string        `json:"prime_award_types"`
	DateType        string          `json:"date_type"`
	DateRange       DateRange       `json:"date_range"`
	Agencies        []PayloadAgency `json:"agencies"`
}

// AwardsPayload is one POST body for the bulk download endpoint.
type AwardsPayload struct {
	Columns    []string       `json:"columns"`
	Filters    PayloadFilters `json:"filters"`
	FileFormat string         `json:"file_format"`
}

const dateLayout = "2006-01-02"

// DateRanges chunks the months-long window ending on the last day of
// (year, month) into ranges of at most periodMonths months. Each range
// starts the day after the previous one ends.
func DateRanges(year, month, months, periodMonths int) ([]DateRange, error) {
	if months <= 0 {
		return nil, fmt.Errorf("months must be greater than 0")
	}
	if periodMonths < 1 || periodMonths > 12 {
		return nil, fmt.Errorf("periodMonths must be between 1 and 12")
	}

	// Anchor arithmetic on the first of the month so AddDate never
	// normalizes across month boundaries.
	firstOfNext := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	end := firstOfNext.AddDate(0, 0, -1)
	start := firstOfNext.AddDate(0, -months, 0)

	var ranges []DateRange
	currentEnd := start.AddDate(0, periodMonths, -1)
	for currentEnd.Before(end) {
		ranges = append(ranges, DateRange{
			StartDate: start.Format(dateLayout),
			EndDate:   currentEnd.Format(dateLayout),
		})
		start = currentEnd.AddDate(0, 0, 1)
		currentEnd = start.AddDate(0, periodMonths, -1)
	}
	ranges = append(ranges, DateRange{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
	})
	return ranges, nil
}

// AwardsPayloads builds one bulk download request per date range, each
// asking for the union of assistance and procurement raw columns.
func AwardsPayloads(year, month, months, periodMonths int) ([]AwardsPayload, error) {
	ranges, err := DateRanges(year, month, months, periodMonths)
	if err != nil {
		return nil, err
	}

	columns := transactions.AllRawColumns()
	payloads := make([]AwardsPayload, 0, len(ranges))
	for _, dr := range ranges {
		payloads = append(payloads, AwardsPayload{
			Columns: columns,
			Filters: PayloadFilters{
				PrimeAwardTypes: PrimeAwardTypes,
				DateType:        "action_date",
				DateRange:       dr,
				Agencies: []PayloadAgency{
					{Type: "awarding", Tier: "toptier", Name: "All"},
				},
			},
			FileFormat: "csv",
		})
	}
	return payloads, nil
}
