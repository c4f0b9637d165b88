package services

import (
	"errors"
	"strings"
	"unicode"

	"car-scraper/models"
)

// ErrIncompleteFragment is returned by Normalize when a fragment has neither
// title nor price, or no usable ID.
var ErrIncompleteFragment = errors.New("fragment has no id or lacks both title and price")

// ResolveURL prefixes site-relative hrefs with origin.
func ResolveURL(origin, href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimRight(origin, "/") + href
	}
	return href
}

// DeriveID extracts the listing ID from a listing URL: the last path segment
// with query string, fragment and trailing slashes removed. When separator is
// set and present in that segment, only the part after its last occurrence is
// kept.
func DeriveID(href, separator string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimRight(href, "/")

	segment := href
	if i := strings.LastIndex(href, "/"); i >= 0 {
		segment = href[i+1:]
	}

	if separator != "" {
		if i := strings.LastIndex(segment, separator); i >= 0 {
			segment = segment[i+len(separator):]
		}
	}
	return segment
}

// Normalize turns a raw index-page fragment plus optional detail text into a
// canonical Listing.
func Normalize(source models.Source, origin, separator string, frag models.RawFragment, detail string) (models.Listing, error) {
	title := normaliseText(frag.Title)
	price := normaliseText(frag.RawPrice)
	id := DeriveID(frag.Href, separator)

	if id == "" || (title == "" && price == "") {
		return models.Listing{}, ErrIncompleteFragment
	}

	return models.Listing{
		ID:         id,
		Title:      title,
		RawPrice:   price,
		ShortInfo:  normaliseText(frag.ShortInfo),
		DetailText: normaliseText(detail),
		URL:        ResolveURL(origin, frag.Href),
		Source:     source,
	}, nil
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
