package services

import (
	"sync"
	"time"

	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/client/querycache"
)

// Quiet period coalescing free-text search keystrokes into a single
// fingerprint change.
const searchQuiet = 500 * time.Millisecond

// QueryState tracks the live list query for a screen. Sort, filter and page
// changes take effect immediately; search text is debounced so rapid
// keystrokes produce one fingerprint change (and therefore one fetch) per
// pause.
type QueryState struct {
	mu       sync.Mutex
	q        models.ListQuery
	deb      *querycache.Debouncer
	onChange func(models.ListQuery)
}

// NewQueryState builds a query state firing onChange whenever the effective
// query changes.
func NewQueryState(perPage int, onChange func(models.ListQuery)) *QueryState {
	if onChange == nil {
		onChange = func(models.ListQuery) {}
	}
	return &QueryState{
		q:        models.ListQuery{PerPage: perPage},
		deb:      querycache.NewDebouncer(searchQuiet),
		onChange: onChange,
	}
}

// Query returns the current effective query.
func (s *QueryState) Query() models.ListQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.q
	if s.q.Filters != nil {
		q.Filters = make(map[string]string, len(s.q.Filters))
		for k, v := range s.q.Filters {
			q.Filters[k] = v
		}
	}
	return q
}

// SetSearch schedules a debounced search change. The page index resets to
// zero: a new search always starts from the first page.
func (s *QueryState) SetSearch(text string) {
	s.deb.Trigger(func() {
		s.mu.Lock()
		s.q.Search = text
		s.q.PageIndex = 0
		s.mu.Unlock()
		s.onChange(s.Query())
	})
}

// SetSort changes the sort column and direction immediately.
func (s *QueryState) SetSort(col, dir string) {
	s.mu.Lock()
	s.q.SortBy = col
	s.q.SortDir = dir
	s.mu.Unlock()
	s.onChange(s.Query())
}

// SetFilter sets a column filter; an empty value removes it. The page index
// resets.
func (s *QueryState) SetFilter(col, val string) {
	s.mu.Lock()
	if s.q.Filters == nil {
		s.q.Filters = map[string]string{}
	}
	if val == "" {
		delete(s.q.Filters, col)
	} else {
		s.q.Filters[col] = val
	}
	s.q.PageIndex = 0
	s.mu.Unlock()
	s.onChange(s.Query())
}

// SetPage moves to the given zero-based page index immediately.
func (s *QueryState) SetPage(i int) {
	s.mu.Lock()
	s.q.PageIndex = i
	s.mu.Unlock()
	s.onChange(s.Query())
}

// SetPerPage changes the page size and resets to the first page.
func (s *QueryState) SetPerPage(n int) {
	s.mu.Lock()
	s.q.PerPage = n
	s.q.PageIndex = 0
	s.mu.Unlock()
	s.onChange(s.Query())
}
