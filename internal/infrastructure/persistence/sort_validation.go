package persistence

import (
	"fmt"

	"github.com/shopmetrics/backend/internal/domain/shared"
)

// sortableColumns whitelists the columns each table may be ordered by.
// Order clauses are assembled from these literals, never from request input.
var sortableColumns = map[string]map[string]bool{
	"customers": {
		"name":        true,
		"email":       true,
		"total_spent": true,
		"orders_count": true,
		"segment":     true,
		"created_at":  true,
		"updated_at":  true,
	},
	"orders": {
		"order_number": true,
		"amount":       true,
		"status":       true,
		"placed_at":    true,
		"created_at":   true,
		"updated_at":   true,
	},
	"products": {
		"name":       true,
		"category":   true,
		"price":      true,
		"inventory":  true,
		"sales":      true,
		"status":     true,
		"created_at": true,
		"updated_at": true,
	},
}

// orderClause resolves a validated ORDER BY clause for the table. Unknown
// sort columns fall back to created_at rather than erroring: list endpoints
// tolerate junk sort parameters.
func orderClause(table string, opts shared.QueryOptions) string {
	column := opts.SortBy
	if column == "" || !sortableColumns[table][column] {
		column = "created_at"
	}
	dir := "DESC"
	if opts.SortDir == shared.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", column, dir)
}
