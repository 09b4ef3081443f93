package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// withCommon returns the common fields plus the extra ones
func withCommon(extra ...string) map[string]bool {
	fields := make(map[string]bool, len(CommonSortFields)+len(extra))
	for k := range CommonSortFields {
		fields[k] = true
	}
	for _, f := range extra {
		fields[f] = true
	}
	return fields
}

// Allowed sort fields per table
var (
	UserSortFields         = withCommon("name", "email", "role", "last_login_at")
	VendorSortFields       = withCommon("name", "category")
	ClientSortFields       = withCommon("name")
	ProjectSortFields      = withCommon("name", "client_name", "start_date", "end_date", "progress", "status")
	StageSortFields        = withCommon("name", "sort_order", "start_date", "end_date")
	MeasurementSortFields  = withCommon("measured_at", "amount", "status")
	QuotationSortFields    = withCommon("amount", "status")
	PurchaseItemSortFields = withCommon("planned_date", "planned_amount", "status")
	EntrySortFields        = withCommon("due_date", "payment_date", "amount", "status", "type")
	InvoiceSortFields      = withCommon("issue_date", "number", "amount")
	CommentSortFields      = withCommon()
	WeeklyReportSortFields = withCommon("week_start")
)
