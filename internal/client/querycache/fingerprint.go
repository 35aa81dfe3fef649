package querycache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pavelgris/erpadmin/internal/client/models"
)

// Fingerprint is the tuple of search/sort/filter/pagination parameters that
// uniquely keys a cached list response. Entity names the cache namespace
// ("users", "todos", "enquiries").
type Fingerprint struct {
	Entity    string
	Search    string
	SortBy    string
	SortDir   string
	Filters   map[string]string
	PageIndex int
	PerPage   int
}

// ForQuery builds the fingerprint of a list request.
func ForQuery(entity string, q models.ListQuery) Fingerprint {
	return Fingerprint{
		Entity:    entity,
		Search:    q.Search,
		SortBy:    q.SortBy,
		SortDir:   q.SortDir,
		Filters:   q.Filters,
		PageIndex: q.PageIndex,
		PerPage:   q.PerPage,
	}
}

// Key renders a canonical cache key. Filter columns are sorted so that two
// equal queries always collide.
func (f Fingerprint) Key() string {
	cols := make([]string, 0, len(f.Filters))
	for col := range f.Filters {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s|", f.Entity, f.Search, f.SortBy, f.SortDir)
	for _, col := range cols {
		fmt.Fprintf(&b, "%s=%s,", col, f.Filters[col])
	}
	fmt.Fprintf(&b, "|%d|%d", f.PageIndex, f.PerPage)
	return b.String()
}
