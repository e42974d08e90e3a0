package opds

// Media types used across the catalog.
const (
	MediaTypePublication    = "application/opds-publication+json"
	MediaTypeFeed           = "application/opds+json"
	MediaTypeAuthentication = "application/opds-authentication+json"
	MediaTypeProfile        = "application/opds-profile+json"
	MediaTypeLCPLicense     = "application/vnd.readium.lcp.license.v1.0+json"
	MediaTypeEPUB           = "application/epub+zip"
	MediaTypeWebPub         = "application/webpub+json"
	MediaTypeHTML           = "text/html"
	MediaTypeJPEG           = "image/jpeg"
)

// Link relations.
const (
	RelSelf          = "self"
	RelNext          = "next"
	RelAlternate     = "alternate"
	RelAuthenticate  = "authenticate"
	RelRefresh       = "refresh"
	RelProfile       = "profile"
	RelAcquisition   = "http://opds-spec.org/acquisition"
	RelOpenAccess    = "http://opds-spec.org/acquisition/open-access"
	RelBorrow        = "http://opds-spec.org/acquisition/borrow"
	RelReturn        = "http://librarysimplified.org/terms/return"
	RelImage         = "http://opds-spec.org/image"
	RelShelf         = "http://opds-spec.org/shelf"
)

// AuthOAuthImplicit is the authentication flow advertised to clients.
const AuthOAuthImplicit = "http://opds-spec.org/auth/oauth/implicit"

// Availability states.
const (
	StateAvailable   = "available"
	StateUnavailable = "unavailable"
)

// Link is an OPDS 2.0 link object.
type Link struct {
	Href       string      `json:"href"`
	Rel        string      `json:"rel,omitempty"`
	Type       string      `json:"type,omitempty"`
	Title      string      `json:"title,omitempty"`
	Properties *Properties `json:"properties,omitempty"`
}

// Properties are the structured link properties used by acquisition links.
type Properties struct {
	Availability        *Availability         `json:"availability,omitempty"`
	IndirectAcquisition []IndirectAcquisition `json:"indirectAcquisition,omitempty"`
	Authenticate        *Authenticate         `json:"authenticate,omitempty"`
}

type Availability struct {
	State string `json:"state"`
}

// IndirectAcquisition describes the format a client ends up with after
// following an acquisition link, e.g. an LCP license wrapping an EPUB.
type IndirectAcquisition struct {
	Type  string                `json:"type"`
	Child []IndirectAcquisition `json:"child,omitempty"`
}

type Authenticate struct {
	Href string `json:"href"`
	Type string `json:"type"`
}

// LCPEPUB is the indirect acquisition chain for an encrypted EPUB loan.
func LCPEPUB() []IndirectAcquisition {
	return []IndirectAcquisition{{
		Type:  MediaTypeLCPLicense,
		Child: []IndirectAcquisition{{Type: MediaTypeEPUB}},
	}}
}
