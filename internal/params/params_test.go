package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePaginationDefaults(t *testing.T) {
	p := ParsePagination(url.Values{})

	require.Equal(t, 25, p.Limit)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 0, p.Offset)
}

func TestParsePaginationClampsLimit(t *testing.T) {
	p := ParsePagination(url.Values{"limit": {"5000"}, "page": {"3"}})

	require.Equal(t, 100, p.Limit)
	require.Equal(t, 3, p.Page)
	require.Equal(t, 200, p.Offset)
}

func TestParsePaginationIgnoresGarbage(t *testing.T) {
	p := ParsePagination(url.Values{"limit": {"abc"}, "page": {"-2"}})

	require.Equal(t, 25, p.Limit)
	require.Equal(t, 1, p.Page)
}

func TestComputeMeta(t *testing.T) {
	p := ParsePagination(url.Values{"limit": {"10"}, "page": {"2"}})
	p.ComputeMeta(35)

	require.Equal(t, 35, p.Total)
	require.Equal(t, 4, p.TotalPages)
	require.True(t, p.HasPrev)
	require.True(t, p.HasNext)
}
