package dto

type ProductFilters struct {
	Category    string
	Kind        string
	IsActive    *bool
	SearchQuery string // name or code
	SortBy      string // name, price, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
