package models_test

import (
	"net/url"
	"testing"

	"tokoadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFilter_EncodeOmitsEmpty(t *testing.T) {
	f := models.ListFilter{Search: "", Category: "5", Page: 1}

	q := f.Encode()
	assert.Equal(t, "category=5&page=1", q)
	assert.NotContains(t, q, "search")
}

func TestParseSort(t *testing.T) {
	s, err := models.ParseSort("price-asc", "", "")
	require.NoError(t, err)
	assert.Equal(t, models.Sort{Field: "price", Direction: models.SortAsc}, s)

	s, err = models.ParseSort("", "created_at", "DESC")
	require.NoError(t, err)
	assert.Equal(t, models.Sort{Field: "created_at", Direction: models.SortDesc}, s)

	s, err = models.ParseSort("", "name", "")
	require.NoError(t, err)
	assert.Equal(t, models.SortAsc, s.Direction)

	s, err = models.ParseSort("", "", "")
	require.NoError(t, err)
	assert.True(t, s.IsZero())

	_, err = models.ParseSort("price-sideways", "", "")
	assert.True(t, models.IsValidation(err))
}

func TestParseListFilter_RoundTrip(t *testing.T) {
	q := url.Values{"search": {" lap "}, "brand": {"acme"}, "sort": {"price-desc"}, "page": {"3"}, "limit": {"500"}}

	f, err := models.ParseListFilter(q.Get)
	require.NoError(t, err)
	assert.Equal(t, "lap", f.Search)
	assert.Equal(t, "acme", f.Brand)
	assert.Equal(t, models.Sort{Field: "price", Direction: models.SortDesc}, f.Sort)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, models.MaxPageSize, f.Limit)
	assert.Equal(t, 200, f.Offset())

	again, err := models.ParseListFilter(f.Values().Get)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestParseListFilter_BadPage(t *testing.T) {
	_, err := models.ParseListFilter(url.Values{"page": {"two"}}.Get)
	assert.True(t, models.IsValidation(err))
}

func TestParseListFilter_PageBounds(t *testing.T) {
	_, err := models.ParseListFilter(url.Values{"page": {"9223372036854775807"}}.Get)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	_, err = models.ParseListFilter(url.Values{"page": {"100001"}}.Get)
	assert.True(t, models.IsValidation(err))

	f, err := models.ParseListFilter(url.Values{"page": {"100000"}, "limit": {"100"}}.Get)
	require.NoError(t, err)
	assert.Equal(t, 9999900, f.Offset())

	huge := models.ListFilter{Page: int(^uint(0) >> 1), Limit: 20}
	assert.Equal(t, models.MaxPage, huge.Normalize().Page)
	assert.GreaterOrEqual(t, huge.Offset(), 0)
}

func TestNewPagination(t *testing.T) {
	p := models.NewPagination(models.ListFilter{Page: 2, Limit: 10}, 25)
	assert.Equal(t, models.Pagination{Page: 2, Pages: 3, Total: 25, Limit: 10}, p)

	p = models.NewPagination(models.ListFilter{}, 0)
	assert.Equal(t, 0, p.Pages)
	assert.Equal(t, 1, p.Page)
}

func TestListFilter_CheckSort(t *testing.T) {
	f := models.ListFilter{Sort: models.Sort{Field: "password", Direction: models.SortAsc}}
	assert.Error(t, f.CheckSort("name", "price"))
	assert.NoError(t, models.ListFilter{}.CheckSort("name"))
}
