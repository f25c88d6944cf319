// Package transactions defines the award transaction record shapes and the
// raw column sets shared between the ingest loader and the schema.
package transactions

import (
	"sort"
	"time"
)

// SharedFields are present on both assistance and procurement transactions.
type SharedFields struct {
	ActionDate                   *time.Time `db:"action_date"`
	AwardingAgencyCode           *string    `db:"awarding_agency_code"`
	AwardingAgencyName           *string    `db:"awarding_agency_name"`
	FederalActionObligation      *float64   `db:"federal_action_obligation"`
	PlaceOfPerformanceStateName  *string    `db:"primary_place_of_performance_state_name"`
	PlaceOfPerformanceCountyFIPS *string    `db:"prime_award_transaction_place_of_performance_county_fips_code"`
	RecipientName                *string    `db:"recipient_name"`
	RecipientUEI                 *string    `db:"recipient_uei"`
	USASpendingPermalink         *string    `db:"usaspending_permalink"`
}

// AssistanceFields only appear on grant/loan records.
type AssistanceFields struct {
	AssistanceAwardUniqueKey       *string  `db:"assistance_award_unique_key"`
	AssistanceTransactionUniqueKey *string  `db:"assistance_transaction_unique_key"`
	AssistanceTypeCode             *string  `db:"assistance_type_code"`
	CFDANumber                     *string  `db:"cfda_number"`
	CFDATitle                      *string  `db:"cfda_title"`
	OriginalLoanSubsidyCost        *float64 `db:"original_loan_subsidy_cost"`
}

// ProcurementFields only appear on contract records.
type ProcurementFields struct {
	ContractAwardUniqueKey       *string `db:"contract_award_unique_key"`
	ContractTransactionUniqueKey *string `db:"contract_transaction_unique_key"`
	NAICSCode                    *string `db:"naics_code"`
	NAICSDescription             *string `db:"naics_description"`
	ProductOrServiceCode         *string `db:"product_or_service_code"`
	ProductOrServiceDescription  *string `db:"product_or_service_code_description"`
}

// DerivedFields are populated by the derivation job, never by the bulk load.
type DerivedFields struct {
	GeneratedPragmaticObligations *float64 `db:"generated_pragmatic_obligations"`
	ActionDateMonth               *int     `db:"action_date_month"`
	ActionDateYear                *int     `db:"action_date_year"`
	ActionDateYearMonth           *string  `db:"action_date_year_month"`
	AwardSummaryUniqueKey         *string  `db:"award_summary_unique_key"`
}

// AssistanceTransaction is one row of assistance_transactions.
type AssistanceTransaction struct {
	ID int64 `db:"id"`
	SharedFields
	AssistanceFields
	DerivedFields
}

// ProcurementTransaction is one row of procurement_transactions.
type ProcurementTransaction struct {
	ID int64 `db:"id"`
	SharedFields
	ProcurementFields
	DerivedFields
}

// Transaction is one row of the unified transactions table. Exactly one of
// the type-specific field groups is populated per row.
type Transaction struct {
	ID int64 `db:"id"`
	SharedFields
	AssistanceFields
	ProcurementFields
	DerivedFields
}

// Raw column lists drive the bulk COPY load and the download payloads. They
// match the USAspending bulk-download CSV headers: shared plus type-specific
// columns, sorted, derived columns excluded.

var sharedRawColumns = []string{
	"action_date",
	"awarding_agency_code",
	"awarding_agency_name",
	"federal_action_obligation",
	"primary_place_of_performance_state_name",
	"prime_award_transaction_place_of_performance_county_fips_code",
	"recipient_name",
	"recipient_uei",
	"usaspending_permalink",
}

var assistanceRawColumns = []string{
	"assistance_award_unique_key",
	"assistance_transaction_unique_key",
	"assistance_type_code",
	"cfda_number",
	"cfda_title",
	"original_loan_subsidy_cost",
}

var procurementRawColumns = []string{
	"contract_award_unique_key",
	"contract_transaction_unique_key",
	"naics_code",
	"naics_description",
	"product_or_service_code",
	"product_or_service_code_description",
}

// AssistanceRawColumns returns the sorted raw column set for
// assistance_transactions.
func AssistanceRawColumns() []string {
	return sortedUnion(sharedRawColumns, assistanceRawColumns)
}

// ProcurementRawColumns returns the sorted raw column set for
// procurement_transactions.
func ProcurementRawColumns() []string {
	return sortedUnion(sharedRawColumns, procurementRawColumns)
}

// AllRawColumns returns the union of both raw column sets, sorted. The bulk
// download payload requests every column once.
func AllRawColumns() []string {
	return sortedUnion(AssistanceRawColumns(), procurementRawColumns)
}

func sortedUnion(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, cols := range [][]string{a, b} {
		for _, c := range cols {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
