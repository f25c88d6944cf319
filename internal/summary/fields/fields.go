// Package fields is the closed registry mapping short public parameter keys
// to transaction table columns. Group-by keys resolve to the descriptive
// column for a dimension (agency name, CFDA title); filter keys resolve to
// the code column users actually supply values for. Adding a field means
// adding one entry here.
package fields

import "sort"

// Type tags the response value type of a field.
type Type string

const (
	TypeString Type = "string"
	TypeNumber Type = "number"
)

// Kind describes how a filter value combines into the WHERE clause.
type Kind int

const (
	// KindIn matches rows whose column value is a member of the supplied set.
	KindIn Kind = iota
	// KindGte matches rows whose column value is >= the supplied value.
	KindGte
	// KindLte matches rows whose column value is <= the supplied value.
	KindLte
)

// Spec describes one registered field.
type Spec struct {
	Key         string
	Column      string
	Title       string
	Type        Type
	Kind        Kind
	Description string
}

// groupBy is the closed set of group-by-capable keys.
var groupBy = map[string]Spec{
	"atc":    {Key: "atc", Column: "assistance_type_code", Title: "Assistance Type Code", Type: TypeString, Description: "Two character code for the type of assistance provided by the award."},
	"awag":   {Key: "awag", Column: "awarding_agency_name", Title: "Awarding Agency Name", Type: TypeString, Description: "Name of the top tier agency that awarded the transaction."},
	"awid":   {Key: "awid", Column: "award_summary_unique_key", Title: "Award Summary Unique Key", Type: TypeString, Description: "Unique key of the award summary the transaction belongs to."},
	"cfda":   {Key: "cfda", Column: "cfda_title", Title: "CFDA Number", Type: TypeString, Description: "Title of the assistance listing (CFDA program) for the award."},
	"naics":  {Key: "naics", Column: "naics_description", Title: "NAICS Code", Type: TypeString, Description: "Description of the NAICS industry classification of the contract."},
	"ppopst": {Key: "ppopst", Column: "primary_place_of_performance_state_name", Title: "PPoP State Name", Type: TypeString, Description: "State name of the primary place of performance."},
	"ppopct": {Key: "ppopct", Column: "prime_award_transaction_place_of_performance_county_fips_code", Title: "PPoP County FIPS", Type: TypeString, Description: "County FIPS code of the primary place of performance."},
	"psc":    {Key: "psc", Column: "product_or_service_code_description", Title: "Product or Service Code", Type: TypeString, Description: "Description of the product or service code of the contract."},
	"uei":    {Key: "uei", Column: "recipient_name", Title: "Recipient UEI", Type: TypeString, Description: "Name of the recipient of the award."},
	"y":      {Key: "y", Column: "action_date_year", Title: "Action Date Year", Type: TypeNumber, Description: "Calendar year of the transaction action date."},
	"ym":     {Key: "ym", Column: "action_date_year_month", Title: "Action Date Year Month", Type: TypeString, Description: "Calendar year and month (YYYY-MM) of the transaction action date."},
}

// filter is the closed set of filterable keys. Date-range bounds are
// filterable but not group-by keys.
var filter = map[string]Spec{
	"atc":        {Key: "atc", Column: "assistance_type_code", Kind: KindIn, Description: "Two character assistance type codes."},
	"awag":       {Key: "awag", Column: "awarding_agency_code", Kind: KindIn, Description: "Top tier awarding agency codes."},
	"awid":       {Key: "awid", Column: "award_summary_unique_key", Kind: KindIn, Description: "Award summary unique keys."},
	"cfda":       {Key: "cfda", Column: "cfda_number", Kind: KindIn, Description: "Assistance listing (CFDA) numbers."},
	"naics":      {Key: "naics", Column: "naics_code", Kind: KindIn, Description: "NAICS codes."},
	"ppopst":     {Key: "ppopst", Column: "primary_place_of_performance_state_name", Kind: KindIn, Description: "Place of performance state names."},
	"ppopct":     {Key: "ppopct", Column: "prime_award_transaction_place_of_performance_county_fips_code", Kind: KindIn, Description: "Place of performance county FIPS codes."},
	"psc":        {Key: "psc", Column: "product_or_service_code", Kind: KindIn, Description: "Product or service codes."},
	"uei":        {Key: "uei", Column: "recipient_uei", Kind: KindIn, Description: "Recipient unique entity identifiers."},
	"y":          {Key: "y", Column: "action_date_year", Kind: KindIn, Description: "Action date calendar years."},
	"ym":         {Key: "ym", Column: "action_date_year_month", Kind: KindIn, Description: "Action date year-months (YYYY-MM)."},
	"start_date": {Key: "start_date", Column: "action_date", Kind: KindGte, Description: "Include transactions with action date on or after this date (YYYY-MM-DD)."},
	"end_date":   {Key: "end_date", Column: "action_date", Kind: KindLte, Description: "Include transactions with action date on or before this date (YYYY-MM-DD)."},
}

// ValidATCCodes is the closed set of assistance type codes accepted by the
// atc filter.
var ValidATCCodes = map[string]struct{}{
	"02": {}, "03": {}, "04": {}, "05": {}, "06": {},
	"07": {}, "08": {}, "09": {}, "10": {}, "11": {},
}

// GroupBy looks up a group-by-capable field. The second return is false for
// unknown keys; callers must treat that as an error, never a wildcard.
func GroupBy(key string) (Spec, bool) {
	s, ok := groupBy[key]
	return s, ok
}

// Filter looks up a filterable field.
func Filter(key string) (Spec, bool) {
	s, ok := filter[key]
	return s, ok
}

// GroupByKeys returns the sorted group-by vocabulary, for documentation and
// error messages.
func GroupByKeys() []string {
	keys := make([]string, 0, len(groupBy))
	for k := range groupBy {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
