package persistence

import (
	"errors"

	"github.com/erp-obras/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateFindError maps gorm's not-found to the domain error
func translateFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// deleteResult maps a delete with no affected rows to not-found
func deleteResult(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applySearch adds a case-insensitive LIKE over the given columns
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + search + "%"
	cond := ""
	args := make([]any, 0, len(columns))
	for i, c := range columns {
		if i > 0 {
			cond += " OR "
		}
		cond += "LOWER(" + c + ") LIKE LOWER(?)"
		args = append(args, pattern)
	}
	return query.Where(cond, args...)
}

// applyPagination applies validated ordering plus offset/limit
func applyPagination(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField, defaultDir string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := defaultDir
	if filter.OrderDir != "" {
		dir = ValidateSortOrder(filter.OrderDir)
	}
	query = query.Order(field + " " + dir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}
