package shared

// Filter carries the list options every repository understands.
// Page is 1-based; a zero Page or PageSize disables pagination.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}
