package opds

import (
	"fmt"
	"net/url"
	"strings"
)

// FeedPath is the catalog feed endpoint relative to the public base URL.
const FeedPath = "/v1/api/opds"

type FeedMetadata struct {
	Title         string `json:"title"`
	TotalItems    int    `json:"totalItems"`
	ItemsPerPage  int    `json:"itemsPerPage"`
	CurrentOffset int    `json:"currentOffset"`
}

// Feed is an OPDS 2.0 publications feed.
type Feed struct {
	Metadata     FeedMetadata  `json:"metadata"`
	Publications []Publication `json:"publications"`
	Links        []Link        `json:"links"`
}

// Page carries the paging window a feed was built for.
type Page struct {
	Total  int
	Limit  int
	Offset int
	Query  string
}

// NewFeed builds a paged feed with self and next links. The next link always
// advances the offset by limit; clients stop when a page comes back empty.
func NewFeed(title, baseURL string, pubs []Publication, page Page) Feed {
	if pubs == nil {
		pubs = []Publication{}
	}
	return Feed{
		Metadata: FeedMetadata{
			Title:         title,
			TotalItems:    page.Total,
			ItemsPerPage:  page.Limit,
			CurrentOffset: page.Offset,
		},
		Publications: pubs,
		Links: []Link{
			{Rel: RelSelf, Href: PageHref(baseURL, page.Offset, page.Limit, page.Query)},
			{Rel: RelNext, Href: PageHref(baseURL, page.Offset+page.Limit, page.Limit, page.Query)},
		},
	}
}

// PageHref returns <base>/v1/api/opds?offset=<o>&limit=<l>, with the search
// query appended when present.
func PageHref(baseURL string, offset, limit int, query string) string {
	href := fmt.Sprintf("%s%s?offset=%d&limit=%d", TrimBase(baseURL), FeedPath, offset, limit)
	if query != "" {
		href += "&q=" + url.QueryEscape(query)
	}
	return href
}

// TrimBase normalises a configured base URL so paths can be appended to it.
func TrimBase(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}
