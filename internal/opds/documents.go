package opds

// Paths of the ancillary documents, relative to the public base URL.
const (
	OAuthImplicitPath = "/v1/api/oauth/implicit"
	AuthenticatePath  = "/v1/api/oauth/authorize"
	RefreshPath       = "/v1/api/oauth/refresh"
	ProfilePath       = "/v1/api/profile"
	ShelfPath         = "/v1/api/shelf"
)

// AuthenticationDocument follows the OPDS Authentication 1.0 shape.
type AuthenticationDocument struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	Authentication []Authentication `json:"authentication"`
	Links          []Link           `json:"links,omitempty"`
}

type Authentication struct {
	Type  string `json:"type"`
	Links []Link `json:"links"`
}

// NewAuthenticationDocument describes the OAuth implicit flow offered by the
// catalog at baseURL.
func NewAuthenticationDocument(title, baseURL string) AuthenticationDocument {
	base := TrimBase(baseURL)
	return AuthenticationDocument{
		ID:          base + OAuthImplicitPath,
		Title:       title,
		Description: "Sign in to borrow books from " + title,
		Authentication: []Authentication{{
			Type: AuthOAuthImplicit,
			Links: []Link{
				{Rel: RelAuthenticate, Href: base + AuthenticatePath, Type: MediaTypeHTML},
				{Rel: RelRefresh, Href: base + RefreshPath, Type: MediaTypeHTML},
			},
		}},
		Links: []Link{
			{Rel: RelProfile, Href: base + ProfilePath, Type: MediaTypeProfile},
			{Rel: RelShelf, Href: base + ShelfPath, Type: MediaTypeFeed},
		},
	}
}

type LoanCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

// Profile is the patron profile document.
type Profile struct {
	Name  string     `json:"name,omitempty"`
	Email string     `json:"email"`
	Loans LoanCounts `json:"loans"`
	Links []Link     `json:"links"`
}

func NewProfile(name, email string, loans LoanCounts, baseURL string) Profile {
	return Profile{
		Name:  name,
		Email: email,
		Loans: loans,
		Links: []Link{
			{Rel: RelShelf, Href: TrimBase(baseURL) + ShelfPath, Type: MediaTypeFeed},
		},
	}
}

type ShelfMetadata struct {
	Title         string `json:"title"`
	NumberOfItems int    `json:"numberOfItems"`
}

// Shelf is the feed of a patron's current loans.
type Shelf struct {
	Metadata     ShelfMetadata `json:"metadata"`
	Publications []Publication `json:"publications"`
	Links        []Link        `json:"links"`
}

func NewShelf(pubs []Publication, baseURL string) Shelf {
	if pubs == nil {
		pubs = []Publication{}
	}
	return Shelf{
		Metadata:     ShelfMetadata{Title: "Bookshelf", NumberOfItems: len(pubs)},
		Publications: pubs,
		Links: []Link{
			{Rel: RelSelf, Href: TrimBase(baseURL) + ShelfPath, Type: MediaTypeFeed},
		},
	}
}
