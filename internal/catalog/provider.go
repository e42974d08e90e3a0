package catalog

import (
	"context"
	"errors"

	"lenny/internal/openlibrary"
	"lenny/internal/opds"
)

// ErrInvalidSearchResponse is returned when the upstream search hands back
// no response and no error.
var ErrInvalidSearchResponse = errors.New("catalog: upstream search returned no record list")

// Searcher is the upstream metadata search.
type Searcher interface {
	Search(ctx context.Context, query string, limit, offset int) (*openlibrary.SearchResponse, error)
}

// SearchRequest describes one adapted search. NumFound is the total to report
// when the upstream does not give one.
type SearchRequest struct {
	Query          string
	Limit          int
	Offset         int
	NumFound       int
	Association    Association
	Flags          Flags
	AuthModeDirect bool
}

// Provider adapts upstream metadata into catalog records and feeds.
type Provider struct {
	searcher Searcher
	urls     URLs
	title    string
}

func NewProvider(searcher Searcher, urls URLs, title string) *Provider {
	return &Provider{searcher: searcher, urls: urls, title: title}
}

func (p *Provider) URLs() URLs {
	return p.urls
}

// Search fetches one page upstream and enriches it with the request's local
// ids and flags.
func (p *Provider) Search(ctx context.Context, req SearchRequest) ([]Record, int, error) {
	docs, total, err := p.Fetch(ctx, req.Query, req.Limit, req.Offset, req.NumFound)
	if err != nil {
		return nil, 0, err
	}
	return p.Build(docs, req.Association, req.Flags, req.AuthModeDirect), total, nil
}

// Fetch runs the upstream search. Upstream errors are returned as is.
func (p *Provider) Fetch(ctx context.Context, query string, limit, offset, numFound int) ([]openlibrary.Doc, int, error) {
	resp, err := p.searcher.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if resp == nil {
		return nil, 0, ErrInvalidSearchResponse
	}
	total := numFound
	if resp.NumFound != nil {
		total = *resp.NumFound
	}
	return resp.Docs, total, nil
}

// Build reconciles docs against assoc and attaches flags.
func (p *Provider) Build(docs []openlibrary.Doc, assoc Association, flags Flags, direct bool) []Record {
	records := Enrich(Reconcile(docs, assoc), flags, p.urls)
	for i := range records {
		records[i].AuthModeDirect = direct
	}
	return records
}

// Feed renders records as a paged OPDS feed.
func (p *Provider) Feed(records []Record, page opds.Page) opds.Feed {
	pubs := make([]opds.Publication, len(records))
	for i, r := range records {
		pubs[i] = r.Publication()
	}
	return opds.NewFeed(p.title, p.urls.Base, pubs, page)
}
