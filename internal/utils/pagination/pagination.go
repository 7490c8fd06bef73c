// Package pagination builds the relative navigation links returned by
// offset-paginated listing endpoints.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

// Links holds the navigation links of one listing page. Next and Previous are
// empty when there is no further or prior page.
type Links struct {
	Self     string `json:"self"`
	First    string `json:"first"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

// BuildLinks assembles the page links for basePath with the given query
// values, overriding limit/offset per link. total is the full filtered count.
func BuildLinks(basePath string, query url.Values, limit, offset int, total int64) Links {
	links := Links{
		Self:  pageURL(basePath, query, limit, offset),
		First: pageURL(basePath, query, limit, 0),
	}
	if int64(offset+limit) < total {
		links.Next = pageURL(basePath, query, limit, offset+limit)
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		links.Previous = pageURL(basePath, query, limit, prev)
	}
	return links
}

func pageURL(basePath string, query url.Values, limit, offset int) string {
	values := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(offset))
	return fmt.Sprintf("%s?%s", basePath, values.Encode())
}
