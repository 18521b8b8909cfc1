package dto

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"lodge/shared/constant"
	"lodge/shared/failure"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams carries the pagination and ordering of list endpoints.
type QueryParams struct {
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	SortBy  string `json:"sort_by"`
	SortDir string `json:"sort_dir" enums:"ASC,DESC"`
}

func positive(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 1 {
		return 0
	}

	return parsed
}

// FromRequest reads page, limit, sort_by and sort_dir. With defaults set, missing paging falls back to
// the first page of DefaultValueLimit rows. Limit never exceeds MaxValueLimit.
func (q *QueryParams) FromRequest(r *http.Request, defaults bool) {
	query := r.URL.Query()

	if page := positive(query.Get(constant.RequestParamPage)); page > 0 {
		q.Page = page
	}

	if limit := positive(query.Get(constant.RequestParamLimit)); limit > 0 {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := strings.TrimSpace(query.Get(constant.RequestParamSortBy)); sortBy != "" {
		q.SortBy = strings.ToLower(sortBy)
	}

	if sortDir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); sortDir == SortDirAsc || sortDir == SortDirDesc {
		q.SortDir = sortDir
	}

	if !defaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}

	if q.SortBy != "" && q.SortDir == "" {
		q.SortDir = SortDirAsc
	}
}

// Offset is the number of rows skipped before the current page.
func (q QueryParams) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

// Sortable rejects a sort_by that is not one of columns. An empty sort_by is always accepted.
func (q QueryParams) Sortable(columns ...string) error {
	if q.SortBy == "" || slices.Contains(columns, q.SortBy) {
		return nil
	}

	return failure.BadRequestFromString("sort_by must be one of: " + strings.Join(columns, ", ")) //nolint:wrapcheck
}
