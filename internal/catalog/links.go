package catalog

import (
	"fmt"

	"lenny/internal/opds"
)

// Links returns the record's links in order. Records without a local id keep
// the upstream links untouched. Open records get self and open-access; encrypted
// ones get self and a borrow link shaped by the auth mode.
func (r Record) Links() []opds.Link {
	if r.LocalID == nil {
		return r.Source.Links()
	}
	id := *r.LocalID

	if !r.Encrypted {
		return []opds.Link{
			r.selfLink(),
			{
				Href: r.URLs.Item(id) + "/read",
				Rel:  opds.RelOpenAccess,
				Type: opds.MediaTypePublication,
			},
		}
	}

	props := &opds.Properties{
		Availability:        &opds.Availability{State: r.availability()},
		IndirectAcquisition: opds.LCPEPUB(),
	}
	borrow := opds.Link{
		Href:       r.URLs.Item(id) + "/borrow",
		Rel:        opds.RelBorrow,
		Type:       opds.MediaTypePublication,
		Properties: props,
	}
	if r.AuthModeDirect {
		borrow.Href = r.direct(borrow.Href)
		borrow.Type = opds.MediaTypeHTML
	} else {
		props.Authenticate = &opds.Authenticate{
			Href: r.URLs.OAuthImplicit(),
			Type: opds.MediaTypeAuthentication,
		}
	}
	return []opds.Link{r.selfLink(), borrow}
}

// PostBorrowLinks are returned once a borrow succeeded: self, the reader for
// the loaned manifest, and the return link. Only the auth mode matters here.
func (r Record) PostBorrowLinks() []opds.Link {
	if r.LocalID == nil {
		return r.Source.Links()
	}
	id := *r.LocalID

	ret := opds.Link{
		Href: r.URLs.Item(id) + "/return",
		Rel:  opds.RelReturn,
		Type: opds.MediaTypePublication,
	}
	if r.AuthModeDirect {
		ret.Href = r.direct(ret.Href)
		ret.Type = opds.MediaTypeHTML
	}
	return []opds.Link{
		r.selfLink(),
		{
			Href: r.URLs.ReaderHref(id),
			Rel:  opds.RelAcquisition,
			Type: opds.MediaTypeWebPub,
		},
		ret,
	}
}

// Images returns the cover link, or nothing when the record has no cover.
func (r Record) Images() []opds.Link {
	cover := r.Source.CoverID()
	if cover <= 0 {
		return []opds.Link{}
	}
	return []opds.Link{{
		Href: fmt.Sprintf(CoverURL, cover),
		Rel:  opds.RelImage,
		Type: opds.MediaTypeJPEG,
	}}
}

// Publication renders the record as it appears in catalog feeds.
func (r Record) Publication() opds.Publication {
	return r.publication(r.Links())
}

// BorrowedPublication renders the record for a patron who holds a loan on it.
func (r Record) BorrowedPublication() opds.Publication {
	return r.publication(r.PostBorrowLinks())
}

func (r Record) publication(links []opds.Link) opds.Publication {
	if links == nil {
		links = []opds.Link{}
	}
	return opds.Publication{
		Metadata: r.Source.Metadata(),
		Links:    links,
		Images:   r.Images(),
	}
}

func (r Record) selfLink() opds.Link {
	href := r.URLs.Self(*r.LocalID)
	if r.Encrypted && r.AuthModeDirect {
		href = r.direct(href)
	}
	return opds.Link{
		Href: href,
		Rel:  opds.RelSelf,
		Type: opds.MediaTypePublication,
	}
}

func (r Record) availability() string {
	if r.Borrowable != nil && !*r.Borrowable {
		return opds.StateUnavailable
	}
	return opds.StateAvailable
}

func (r Record) direct(href string) string {
	return href + "?" + AuthModeParam + "=" + AuthModeDirect
}
