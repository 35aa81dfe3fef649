package models

import (
	"fmt"
	"net/url"
	"strconv"
)

// ListQuery carries the server-side search/sort/filter/pagination parameters
// of a list request. PageIndex is zero-based; the wire format is one-based.
type ListQuery struct {
	Search    string
	SortBy    string
	SortDir   string
	Filters   map[string]string
	PageIndex int
	PerPage   int
}

// Values renders the query in the backend's expected form, including
// filter[col]=val entries for column filters.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set("search", q.Search)
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	sortDir := q.SortDir
	if sortDir == "" {
		sortDir = "asc"
	}
	v.Set("sort_by", sortBy)
	v.Set("sort_dir", sortDir)
	v.Set("page", strconv.Itoa(q.PageIndex+1))
	v.Set("per_page", strconv.Itoa(q.PerPage))
	for col, val := range q.Filters {
		v.Set(fmt.Sprintf("filter[%s]", col), val)
	}
	return v
}

// ListMeta is the pagination block of a list response.
type ListMeta struct {
	LastPage int `json:"last_page"`
	Total    int `json:"total,omitempty"`
}

// UserList, TodoList and EnquiryList are the list response envelopes. Users
// and enquiries come back as {data, meta}; todos carry a flat total.
type UserList struct {
	Data []User   `json:"data"`
	Meta ListMeta `json:"meta"`
}

type TodoList struct {
	Data  []Todo `json:"data"`
	Total int    `json:"total"`
}

type EnquiryList struct {
	Data []Enquiry `json:"data"`
	Meta ListMeta  `json:"meta"`
}
