package catalog

import (
	"fmt"
	"net/url"

	"lenny/internal/opds"
)

// Source is an upstream metadata record. It renders its own metadata and
// native links; Record forwards to it or overrides the links.
type Source interface {
	RecordKey() string
	Links() []opds.Link
	Metadata() opds.Metadata
	CoverID() int64
}

// Query parameter marking the direct (OTP) borrow flow.
const (
	AuthModeParam  = "auth_mode"
	AuthModeDirect = "direct"
)

// CoverURL is the Open Library covers endpoint, sized large.
const CoverURL = "https://covers.openlibrary.org/b/id/%d-L.jpg"

// URLs locates the catalog's own endpoints.
type URLs struct {
	Base   string
	Reader string
}

func (u URLs) base() string {
	return opds.TrimBase(u.Base)
}

// Self is the catalog's OPDS entry for a local id.
func (u URLs) Self(id int64) string {
	return fmt.Sprintf("%s%s/%d", u.base(), opds.FeedPath, id)
}

// Item is the root of the item's access endpoints.
func (u URLs) Item(id int64) string {
	return fmt.Sprintf("%s/v1/api/items/%d", u.base(), id)
}

func (u URLs) Manifest(id int64) string {
	return u.Item(id) + "/readium/manifest.json"
}

// ReaderHref opens the item's manifest in the web reader.
func (u URLs) ReaderHref(id int64) string {
	reader := opds.TrimBase(u.Reader)
	if reader == "" {
		reader = u.base() + "/read"
	}
	return reader + "?manifest=" + url.QueryEscape(u.Manifest(id))
}

func (u URLs) OAuthImplicit() string {
	return u.base() + opds.OAuthImplicitPath
}

// Flags carry per-item access state keyed by local id.
type Flags struct {
	Encrypted  map[int64]bool
	Borrowable map[int64]bool
}

// Record is an upstream record enriched with local catalog state.
type Record struct {
	Source         Source
	LocalID        *int64
	Encrypted      bool
	Borrowable     *bool
	AuthModeDirect bool
	URLs           URLs
}

// Enrich attaches encryption and borrowable flags to reconciled records.
// Encrypted defaults to false; Borrowable stays nil unless supplied.
func Enrich[S Source](assigned []Assigned[S], flags Flags, urls URLs) []Record {
	out := make([]Record, len(assigned))
	for i, a := range assigned {
		rec := Record{Source: a.Source, LocalID: a.LocalID, URLs: urls}
		if a.LocalID != nil {
			id := *a.LocalID
			if enc, ok := flags.Encrypted[id]; ok {
				rec.Encrypted = enc
			}
			if b, ok := flags.Borrowable[id]; ok {
				rec.Borrowable = &b
			}
		}
		out[i] = rec
	}
	return out
}

// WithAuthModeDirect returns a copy of r using the given borrow flow.
func (r Record) WithAuthModeDirect(direct bool) Record {
	r.AuthModeDirect = direct
	return r
}

// ID returns the local id, or 0 when the record has none.
func (r Record) ID() int64 {
	if r.LocalID == nil {
		return 0
	}
	return *r.LocalID
}
