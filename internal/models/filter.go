package models

import (
	"net/url"
	"strconv"
	"strings"
)

// SortDirection of a list query.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort is a single field/direction ordering.
type Sort struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// IsZero reports whether no ordering was requested.
func (s Sort) IsZero() bool { return s.Field == "" }

// ParseSort accepts either a composite "field-direction" string (price-asc) or a plain
// field name with a separate order.
func ParseSort(sort, sortBy, sortOrder string) (Sort, error) {
	field, dir := strings.TrimSpace(sortBy), strings.ToLower(strings.TrimSpace(sortOrder))
	if sort = strings.TrimSpace(sort); sort != "" {
		field, dir = sort, ""
		if i := strings.LastIndex(sort, "-"); i > 0 {
			field, dir = sort[:i], strings.ToLower(sort[i+1:])
		}
	}
	if field == "" {
		return Sort{}, nil
	}
	switch SortDirection(dir) {
	case "":
		return Sort{Field: field, Direction: SortAsc}, nil
	case SortAsc, SortDesc:
		return Sort{Field: field, Direction: SortDirection(dir)}, nil
	}
	return Sort{}, NewValidationError("sortOrder", "unknown sort direction %q", dir)
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage bounds page numbers so offsets stay well inside int range.
	MaxPage = 100000
)

// ListFilter is the query every list endpoint accepts.
type ListFilter struct {
	Search   string
	Category string
	Brand    string
	Status   string
	Sort     Sort
	Page     int
	Limit    int
}

// Values encodes the filter as query parameters, leaving out empty values.
func (f ListFilter) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("search", f.Search)
	set("category", f.Category)
	set("brand", f.Brand)
	set("status", f.Status)
	if !f.Sort.IsZero() {
		v.Set("sortBy", f.Sort.Field)
		set("sortOrder", string(f.Sort.Direction))
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// Encode is the query string form of Values.
func (f ListFilter) Encode() string { return f.Values().Encode() }

// ParseListFilter reads a filter through get, typically a request's query accessor.
func ParseListFilter(get func(key string) string) (ListFilter, error) {
	f := ListFilter{
		Search:   strings.TrimSpace(get("search")),
		Category: strings.TrimSpace(get("category")),
		Brand:    strings.TrimSpace(get("brand")),
		Status:   strings.TrimSpace(get("status")),
	}
	sort, err := ParseSort(get("sort"), get("sortBy"), get("sortOrder"))
	if err != nil {
		return ListFilter{}, err
	}
	f.Sort = sort
	if f.Page, err = positiveInt(get("page"), "page"); err != nil {
		return ListFilter{}, err
	}
	if f.Page > MaxPage {
		return ListFilter{}, NewValidationError("page", "must not exceed %d", MaxPage)
	}
	if f.Limit, err = positiveInt(get("limit"), "limit"); err != nil {
		return ListFilter{}, err
	}
	return f.Normalize(), nil
}

func positiveInt(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, NewValidationError(field, "must be a non-negative integer")
	}
	return n, nil
}

// Normalize fills in the default page and clamps the page and page size.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	return f
}

// Offset is the number of items before the filter's page.
func (f ListFilter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.Limit
}

// CheckSort rejects sort fields outside allowed.
func (f ListFilter) CheckSort(allowed ...string) error {
	if f.Sort.IsZero() {
		return nil
	}
	for _, a := range allowed {
		if a == f.Sort.Field {
			return nil
		}
	}
	return NewValidationError("sortBy", "cannot sort by %q", f.Sort.Field)
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
	Limit int   `json:"limit"`
}

// NewPagination computes the page count for total items under f.
func NewPagination(f ListFilter, total int64) Pagination {
	n := f.Normalize()
	pages := int((total + int64(n.Limit) - 1) / int64(n.Limit))
	return Pagination{Page: n.Page, Pages: pages, Total: total, Limit: n.Limit}
}

// Page is one page of list results.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
