// Package extract pulls post and image links out of listing and post pages.
//
// Both extractors are pure and total: malformed or unrelated markup yields
// an empty slice, never an error.
package extract

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
)

const (
	// ListingContainer marks the primary content region of a listing page
	ListingContainer = "#content"
	// PostBodyContainer marks the body of a post page
	PostBodyContainer = "div.entry-content"
	// LazySrcAttr carries the real image URL on deferred-loading markup
	LazySrcAttr = "data-lazy-src"
)

// PostLinks returns the href of every anchor that carries a rel attribute
// inside the listing container, in document order.
func PostLinks(html []byte) []string {
	container := lastMatch(html, ListingContainer)
	if container == nil {
		return []string{}
	}

	links := []string{}
	container.Find("a").Each(func(_ int, a *goquery.Selection) {
		if _, ok := a.Attr("rel"); !ok {
			return
		}
		if href, ok := a.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links
}

// ImageLinks returns the lazy-load source of every image inside the post
// body container, in document order.
func ImageLinks(html []byte) []string {
	container := lastMatch(html, PostBodyContainer)
	if container == nil {
		return []string{}
	}

	links := []string{}
	container.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr(LazySrcAttr); ok {
			links = append(links, src)
		}
	})
	return links
}

// lastMatch parses html and returns the last element matching selector,
// or nil when there is none.
func lastMatch(html []byte, selector string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}
	matches := doc.Find(selector)
	if matches.Length() == 0 {
		return nil
	}
	return matches.Last()
}
