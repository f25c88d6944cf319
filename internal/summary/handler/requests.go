package handler

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"awardsreport/internal/summary/fields"
	"awardsreport/internal/summary/models"
	dErrors "awardsreport/pkg/domain-errors"
	pstrings "awardsreport/pkg/platform/strings"
)

// minYear is the first year USAspending publishes transaction data for.
const minYear = 2008

var ymPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// summaryRequest is a fully validated summary tables request.
type summaryRequest struct {
	GroupBy models.GroupKey
	Filters models.FilterSet
	Limit   int
}

// parseSummaryRequest validates raw query parameters against the field
// registry's closed vocabulary. Unknown group-by keys, out-of-range years or
// months, and malformed values are rejected here so the query builder only
// ever sees validated input.
func parseSummaryRequest(params url.Values, now time.Time) (summaryRequest, error) {
	req := summaryRequest{Limit: models.DefaultLimit}

	gb := params["gb"]
	if len(gb) == 0 {
		return req, dErrors.New(dErrors.CodeValidation, "gb must not be empty")
	}
	for _, key := range gb {
		if _, ok := fields.GroupBy(key); !ok {
			return req, dErrors.Newf(dErrors.CodeValidation, "unknown gb value %q", key)
		}
	}
	req.GroupBy = models.GroupKey(gb)

	// repeated filter values collapse to one IN-list entry
	atc := pstrings.DedupeAndTrim(params["atc"])
	for _, code := range atc {
		if _, ok := fields.ValidATCCodes[code]; !ok {
			return req, dErrors.Newf(dErrors.CodeValidation, "invalid atc value %q", code)
		}
	}
	req.Filters.ATC = atc
	req.Filters.Awag = pstrings.DedupeAndTrim(params["awag"])
	req.Filters.Awid = pstrings.DedupeAndTrim(params["awid"])
	req.Filters.CFDA = pstrings.DedupeAndTrim(params["cfda"])
	req.Filters.NAICS = pstrings.DedupeAndTrim(params["naics"])
	req.Filters.PPoPSt = pstrings.DedupeAndTrim(params["ppopst"])
	req.Filters.PPoPCt = pstrings.DedupeAndTrim(params["ppopct"])
	req.Filters.PSC = pstrings.DedupeAndTrim(params["psc"])
	req.Filters.UEI = pstrings.DedupeAndTrim(params["uei"])

	currentYear := now.Year()
	for _, raw := range params["y"] {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return req, dErrors.Newf(dErrors.CodeValidation, "y value %q is not an integer", raw)
		}
		if year < minYear || year > currentYear {
			return req, dErrors.Newf(dErrors.CodeValidation,
				"y value %d outside valid range %d-%d", year, minYear, currentYear)
		}
		req.Filters.Years = append(req.Filters.Years, year)
	}

	for _, ym := range params["ym"] {
		if !ymPattern.MatchString(ym) {
			return req, dErrors.Newf(dErrors.CodeValidation, "ym value %q is not of the form YYYY-MM", ym)
		}
		year, _ := strconv.Atoi(ym[:4])
		if year < minYear || year > currentYear {
			return req, dErrors.Newf(dErrors.CodeValidation,
				"ym value %q outside valid range %d-%d", ym, minYear, currentYear)
		}
		req.Filters.YearMonths = append(req.Filters.YearMonths, ym)
	}

	var err error
	if req.Filters.StartDate, err = parseDate(params.Get("start_date"), "start_date"); err != nil {
		return req, err
	}
	if req.Filters.EndDate, err = parseDate(params.Get("end_date"), "end_date"); err != nil {
		return req, err
	}

	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return req, dErrors.Newf(dErrors.CodeValidation, "limit value %q is not a positive integer", raw)
		}
		req.Limit = limit
	}

	return req, nil
}

func parseDate(raw, param string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("%s value %q is not of the form YYYY-MM-DD", param, raw))
	}
	return raw, nil
}
