package opds

// TypeBook is the schema.org type attached to every catalog publication.
const TypeBook = "http://schema.org/Book"

type Contributor struct {
	Name string `json:"name"`
}

type Metadata struct {
	Type        string        `json:"@type"`
	Title       string        `json:"title"`
	Identifier  string        `json:"identifier,omitempty"`
	Author      []Contributor `json:"author,omitempty"`
	Publisher   []Contributor `json:"publisher,omitempty"`
	Published   string        `json:"published,omitempty"`
	Language    []string      `json:"language,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Publication is a single OPDS 2.0 publication entry.
type Publication struct {
	Metadata Metadata `json:"metadata"`
	Links    []Link   `json:"links"`
	Images   []Link   `json:"images,omitempty"`
}

// Contributors turns plain names into contributor objects, skipping blanks.
func Contributors(names []string) []Contributor {
	var out []Contributor
	for _, n := range names {
		if n == "" {
			continue
		}
		out = append(out, Contributor{Name: n})
	}
	return out
}
