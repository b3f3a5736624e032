package repositories

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tokoadmin/internal/models"

	"gorm.io/gorm"
)

// orderClause resolves f's sort against an allow-list of field -> column.
func orderClause(f models.ListFilter, columns map[string]string, fallback string) (string, error) {
	if f.Sort.IsZero() {
		return fallback, nil
	}
	col, ok := columns[f.Sort.Field]
	if !ok {
		return "", models.NewValidationError("sortBy", "cannot sort by %q", f.Sort.Field)
	}
	dir := "ASC"
	if f.Sort.Direction == models.SortDesc {
		dir = "DESC"
	}
	return col + " " + dir, nil
}

// likePattern builds a case-insensitive LIKE pattern for search.
func likePattern(search string) string {
	return "%" + strings.ToLower(search) + "%"
}

// findPage counts and fetches one page of T matching scope.
func findPage[T any](db *gorm.DB, scope func(*gorm.DB) *gorm.DB, f models.ListFilter, order string, preload ...string) ([]T, int64, error) {
	var total int64
	if err := db.Model(new(T)).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count: %w", err)
	}

	f = f.Normalize()
	q := db.Scopes(scope).Order(order).Offset(f.Offset()).Limit(f.Limit)
	for _, p := range preload {
		q = q.Preload(p)
	}
	items := make([]T, 0, f.Limit)
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list: %w", err)
	}
	return items, total, nil
}

// translate maps GORM errors onto the model sentinels.
func translate(err error, kind, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NotFound(kind, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %s %w", kind, id, models.ErrDuplicate)
	}
	return err
}

// lessFunc orders two items of T for one sort field.
type lessFunc[T any] func(a, b T) bool

// sortAndPage sorts matched in memory and cuts the filter's page out of it.
func sortAndPage[T any](matched []T, f models.ListFilter, less map[string]lessFunc[T], fallback lessFunc[T]) ([]T, int64, error) {
	cmp := fallback
	if !f.Sort.IsZero() {
		l, ok := less[f.Sort.Field]
		if !ok {
			return nil, 0, models.NewValidationError("sortBy", "cannot sort by %q", f.Sort.Field)
		}
		cmp = l
		if f.Sort.Direction == models.SortDesc {
			cmp = func(a, b T) bool { return l(b, a) }
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return cmp(matched[i], matched[j]) })

	total := int64(len(matched))
	f = f.Normalize()
	start := f.Offset()
	if start < 0 || start >= len(matched) {
		return []T{}, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
