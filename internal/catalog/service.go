package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lenny/internal/item"
	"lenny/internal/openlibrary"
	"lenny/internal/opds"
)

var (
	// ErrNoMetadata is returned when Open Library has no record for a local item.
	ErrNoMetadata = errors.New("catalog: no upstream metadata for item")
	// ErrEncrypted is returned when an encrypted item is opened without a loan.
	ErrEncrypted = errors.New("catalog: item requires a loan")
)

// FeedQuery is one page of the catalog feed.
type FeedQuery struct {
	Query          string `validate:"max=256"`
	Limit          int    `validate:"gte=1,lte=100"`
	Offset         int    `validate:"gte=0"`
	AuthModeDirect bool
}

type Service struct {
	provider *Provider
	items    item.Repository
	logger   *zap.Logger
}

func NewService(provider *Provider, items item.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, items: items, logger: logger}
}

func (s *Service) Provider() *Provider {
	return s.provider
}

// Feed builds one page of the catalog. Without a query it pages the local
// items and looks their editions up upstream; with one it searches upstream
// and marks the records the catalog holds.
func (s *Service) Feed(ctx context.Context, q FeedQuery) (opds.Feed, error) {
	page := opds.Page{Limit: q.Limit, Offset: q.Offset, Query: q.Query}

	if q.Query == "" {
		items, total, err := s.items.List(ctx, q.Limit, q.Offset)
		if err != nil {
			return opds.Feed{}, fmt.Errorf("list items: %w", err)
		}
		page.Total = total
		if len(items) == 0 {
			return s.provider.Feed(nil, page), nil
		}
		records, err := s.recordsFor(ctx, items, q.AuthModeDirect)
		if err != nil {
			return opds.Feed{}, err
		}
		return s.provider.Feed(records, page), nil
	}

	docs, total, err := s.provider.Fetch(ctx, q.Query, q.Limit, q.Offset, 0)
	if err != nil {
		return opds.Feed{}, fmt.Errorf("search upstream: %w", err)
	}
	page.Total = total

	var editions []int64
	for _, d := range docs {
		editions = append(editions, d.EditionIDs()...)
	}
	items, err := s.items.ListByEditions(ctx, editions)
	if err != nil {
		return opds.Feed{}, fmt.Errorf("list items by edition: %w", err)
	}
	docs, assoc, flags := align(docs, items)
	return s.provider.Feed(s.provider.Build(docs, assoc, flags, q.AuthModeDirect), page), nil
}

// Record builds the catalog record for one local item.
func (s *Service) Record(ctx context.Context, id int64, direct bool) (Record, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	records, err := s.recordsFor(ctx, []item.Item{it}, direct)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, ErrNoMetadata
	}
	return records[0], nil
}

// Records builds catalog records for the given local ids. Items Open Library
// knows nothing about are left out.
func (s *Service) Records(ctx context.Context, ids []int64, direct bool) ([]Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	items, err := s.items.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return s.recordsFor(ctx, items, direct)
}

// ReaderURL returns where an open item is read. Encrypted items need a loan.
func (s *Service) ReaderURL(ctx context.Context, id int64) (string, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if it.Encrypted {
		return "", ErrEncrypted
	}
	return s.provider.URLs().ReaderHref(it.ID), nil
}

// recordsFor fetches the editions of items upstream and builds one record per
// item, in item order. Items upstream has no record for are dropped.
func (s *Service) recordsFor(ctx context.Context, items []item.Item, direct bool) ([]Record, error) {
	editions := make([]int64, len(items))
	for i, it := range items {
		editions[i] = it.EditionID
	}

	docs, _, err := s.provider.Fetch(ctx, openlibrary.EditionQuery(editions), len(editions), 0, len(editions))
	if err != nil {
		return nil, fmt.Errorf("fetch editions: %w", err)
	}

	held, assoc, flags := byItem(docs, items)
	if len(held) < len(items) {
		s.logger.Debug("upstream returned no record for some items",
			zap.Int("items", len(items)),
			zap.Int("records", len(held)),
		)
	}
	return s.provider.Build(held, assoc, flags, direct), nil
}

// byItem pairs every item with the doc listing its edition. A work holding
// several local editions is repeated once per item.
func byItem(docs []openlibrary.Doc, items []item.Item) ([]openlibrary.Doc, Association, Flags) {
	byEdition := make(map[int64]int, len(docs))
	for i, d := range docs {
		for _, ed := range d.EditionIDs() {
			if _, ok := byEdition[ed]; !ok {
				byEdition[ed] = i
			}
		}
	}

	flags := newFlags(len(items))
	out := make([]openlibrary.Doc, 0, len(items))
	ids := make([]any, 0, len(items))
	for _, it := range items {
		i, ok := byEdition[it.EditionID]
		if !ok {
			continue
		}
		out = append(out, docs[i])
		ids = append(ids, it.ID)
		flags.add(it)
	}
	return out, Sequence(ids...), flags
}

// align lines search results up with the items held for them. A doc the
// catalog holds no copy of is kept once with a nil id; a doc matching several
// items is repeated once per item. Each item is used at most once.
func align(docs []openlibrary.Doc, items []item.Item) ([]openlibrary.Doc, Association, Flags) {
	byEdition := make(map[int64]item.Item, len(items))
	for _, it := range items {
		byEdition[it.EditionID] = it
	}

	flags := newFlags(len(items))
	out := make([]openlibrary.Doc, 0, len(docs))
	ids := make([]any, 0, len(docs))
	used := make(map[int64]bool, len(items))
	for _, d := range docs {
		matched := false
		for _, ed := range d.EditionIDs() {
			it, ok := byEdition[ed]
			if !ok || used[it.ID] {
				continue
			}
			used[it.ID] = true
			matched = true
			out = append(out, d)
			ids = append(ids, it.ID)
			flags.add(it)
		}
		if !matched {
			out = append(out, d)
			ids = append(ids, nil)
		}
	}
	return out, Sequence(ids...), flags
}

func newFlags(n int) Flags {
	return Flags{
		Encrypted:  make(map[int64]bool, n),
		Borrowable: make(map[int64]bool, n),
	}
}

func (f Flags) add(it item.Item) {
	f.Encrypted[it.ID] = it.Encrypted
	f.Borrowable[it.ID] = it.Borrowable()
}
