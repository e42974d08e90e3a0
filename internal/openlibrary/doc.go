package openlibrary

import (
	"fmt"
	"strconv"
	"strings"

	"lenny/internal/opds"
)

// WebURL is where Open Library renders records for people.
const WebURL = "https://openlibrary.org"

// Doc is one record from search.json.
type Doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	CoverI           int64    `json:"cover_i"`
	FirstPublishYear int      `json:"first_publish_year"`
	Publishers       []string `json:"publisher"`
	Languages        []string `json:"language"`
	EditionKeys      []string `json:"edition_key"`
	FirstSentence    []string `json:"first_sentence"`
}

// RecordKey is the upstream key, e.g. "/works/OL45804W".
func (d Doc) RecordKey() string {
	return d.Key
}

// CoverID is the Open Library cover id, zero when the record has none.
func (d Doc) CoverID() int64 {
	return d.CoverI
}

// Links are the record's own links: its page on openlibrary.org.
func (d Doc) Links() []opds.Link {
	if d.Key == "" {
		return nil
	}
	key := d.Key
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	return []opds.Link{{
		Href: WebURL + key,
		Rel:  opds.RelAlternate,
		Type: opds.MediaTypeHTML,
	}}
}

func (d Doc) Metadata() opds.Metadata {
	m := opds.Metadata{
		Type:      opds.TypeBook,
		Title:     d.Title,
		Author:    opds.Contributors(d.AuthorNames),
		Publisher: opds.Contributors(d.Publishers),
		Language:  d.Languages,
	}
	if d.Key != "" {
		m.Identifier = WebURL + "/" + strings.TrimPrefix(d.Key, "/")
	}
	if d.FirstPublishYear > 0 {
		m.Published = strconv.Itoa(d.FirstPublishYear)
	}
	if len(d.FirstSentence) > 0 {
		m.Description = d.FirstSentence[0]
	}
	return m
}

// EditionIDs returns the numeric ids of the record's edition keys, skipping
// keys that do not parse.
func (d Doc) EditionIDs() []int64 {
	var ids []int64
	for _, k := range d.EditionKeys {
		if id, ok := NumericID(k); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// NumericID extracts the number from an Open Library key such as "OL123M",
// "/books/OL123M" or "/works/OL45W". Malformed keys report false.
func NumericID(key string) (int64, bool) {
	key = strings.TrimSpace(key)
	if i := strings.LastIndex(key, "/"); i >= 0 {
		key = key[i+1:]
	}
	if !strings.HasPrefix(key, "OL") {
		return 0, false
	}
	key = strings.TrimPrefix(key, "OL")
	key = strings.TrimRight(key, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	if key == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// EditionKey formats a numeric edition id as an Open Library edition key.
func EditionKey(id int64) string {
	return fmt.Sprintf("OL%dM", id)
}

// EditionQuery builds a search.json query matching any of the given editions.
func EditionQuery(ids []int64) string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = EditionKey(id)
	}
	return "edition_key:(" + strings.Join(keys, " OR ") + ")"
}
