package shared

import "time"

// SortDirection constrains sort ordering to the two recognized values.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// QueryOptions enumerates the recognized list filters. Handlers bind request
// parameters into this structure and validate it before any repository call,
// so no query clause is ever assembled from raw request strings.
type QueryOptions struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  SortDirection
	Search   string
	Category string
	Status   string
	Segment  string
	DateFrom *time.Time
	DateTo   *time.Time
}

// DefaultQueryOptions returns query options with default pagination
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		Page:     1,
		PageSize: 20,
		SortBy:   "created_at",
		SortDir:  SortDesc,
	}
}

// Validate normalizes pagination bounds and checks the sort direction.
func (o *QueryOptions) Validate() error {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 || o.PageSize > 100 {
		o.PageSize = 20
	}
	if o.SortDir == "" {
		o.SortDir = SortDesc
	}
	if o.SortDir != SortAsc && o.SortDir != SortDesc {
		return NewDomainError("INVALID_SORT_DIR", "Sort direction must be asc or desc")
	}
	if o.DateFrom != nil && o.DateTo != nil && o.DateFrom.After(*o.DateTo) {
		return NewDomainError("INVALID_DATE_RANGE", "Date range start must not be after end")
	}
	return nil
}

// Offset returns the row offset for the current page
func (o *QueryOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
