package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQuery_Defaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})
	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
	assert.Equal(t, 1, filter.Page)
	assert.Empty(t, filter.Filter)
	assert.Empty(t, filter.Sort)
}

func TestParseFilterFromQuery_FilterAndSort(t *testing.T) {
	q, err := url.ParseQuery("search=macbook&filter[status]=available&filter[category]=laptop&sort[created_at]=desc")
	assert.NoError(t, err)

	filter := ParseFilterFromQuery(q)
	assert.Equal(t, "macbook", filter.Search)
	assert.Equal(t, "available", filter.Filter["status"])
	assert.Equal(t, "laptop", filter.Filter["category"])
	assert.Equal(t, "desc", filter.Sort["created_at"])
}

func TestParseFilterFromQuery_LimitCapped(t *testing.T) {
	q := url.Values{"limit": {"9999"}}
	filter := ParseFilterFromQuery(q)
	assert.Equal(t, MaxLimit, filter.Limit)
}

func TestParseFilterFromQuery_PageComputesOffset(t *testing.T) {
	q := url.Values{"limit": {"20"}, "page": {"3"}}
	filter := ParseFilterFromQuery(q)
	assert.Equal(t, 40, filter.Offset)
	assert.Equal(t, 3, filter.Page)
}

func TestParseFilterFromQuery_OffsetWinsOverPage(t *testing.T) {
	q := url.Values{"limit": {"10"}, "offset": {"30"}, "page": {"1"}}
	filter := ParseFilterFromQuery(q)
	assert.Equal(t, 30, filter.Offset)
	assert.Equal(t, 4, filter.Page)
}
