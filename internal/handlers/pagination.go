package handlers

import (
	"strconv"
	"strings"

	"petshop/internal/apperr"
	"petshop/internal/response"
)

const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 100
)

var (
	errInvalidPage  = apperr.Validation("page must be a positive integer")
	errInvalidLimit = apperr.Validation("limit must be a positive integer")
)

// parsePaginationParams reads page and limit query values. Empty values
// take the defaults and limit is capped at maxLimit.
func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(defaultPage)
	limit := int64(defaultLimit)

	if pageStr = strings.TrimSpace(pageStr); pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errInvalidPage
		}
		page = p
	}

	if limitStr = strings.TrimSpace(limitStr); limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, errInvalidLimit
		}
		limit = min(l, maxLimit)
	}

	return page, limit, nil
}

func newPagination(page, limit, total int64) response.Pagination {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return response.Pagination{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalProducts: total,
		HasMore:       page*limit < total,
	}
}
