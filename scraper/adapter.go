// Package scraper fetches listing index and detail pages and turns them into
// filtered listings, one site at a time.
package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"car-scraper/models"
	"car-scraper/services"
	"car-scraper/utils"
)

// Site knows where a classifieds site keeps its listings and how to read
// them out of a parsed page.
type Site interface {
	Source() models.Source
	Origin() string
	PageURLs() []string
	// IDSeparator is the delimiter after which the listing ID sits in the
	// last URL segment, or "" when the whole segment is the ID.
	IDSeparator() string
	ParseIndex(doc *goquery.Document) []models.RawFragment
	ParseDetail(doc *goquery.Document) string
}

// AdapterOptions tunes the request behaviour of an Adapter.
type AdapterOptions struct {
	IndexTimeout  time.Duration
	DetailTimeout time.Duration
	// PageDelay is the minimum gap between two index page requests.
	PageDelay  time.Duration
	MaxEntries int
}

// Adapter drives one Site: it fetches its pages, fetches detail pages for new
// entries and applies the filter.
type Adapter struct {
	site    Site
	fetcher Fetcher
	opts    AdapterOptions
	limiter *rate.Limiter
	logger  *utils.Logger
}

// NewAdapter wraps site with a fetcher and a per-site politeness limiter.
func NewAdapter(site Site, fetcher Fetcher, opts AdapterOptions, logger *utils.Logger) *Adapter {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.PageDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.PageDelay), 1)
	}
	return &Adapter{
		site:    site,
		fetcher: fetcher,
		opts:    opts,
		limiter: limiter,
		logger:  logger.With(site.Source().Key()),
	}
}

func (a *Adapter) Source() models.Source {
	return a.site.Source()
}

// FetchCandidates fetches one index page and returns at most MaxEntries raw
// fragments from it.
func (a *Adapter) FetchCandidates(ctx context.Context, pageURL string) (frags []models.RawFragment, err error) {
	ctx, cancel := withTimeout(ctx, a.opts.IndexTimeout)
	defer cancel()

	doc, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			frags, err = nil, fmt.Errorf("parse %s: panic: %v", pageURL, r)
		}
	}()
	frags = a.site.ParseIndex(doc)

	if a.opts.MaxEntries > 0 && len(frags) > a.opts.MaxEntries {
		frags = frags[:a.opts.MaxEntries]
	}
	return frags, nil
}

// FetchDetail returns the descriptive text of a listing page, or "" when the
// page cannot be fetched or parsed.
func (a *Adapter) FetchDetail(ctx context.Context, url string) (text string) {
	ctx, cancel := withTimeout(ctx, a.opts.DetailTimeout)
	defer cancel()

	doc, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		a.logger.Debug("detail %s: %v", url, err)
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("detail %s: parser panic: %v", url, r)
			text = ""
		}
	}()
	return a.site.ParseDetail(doc)
}

// Collect walks every index page of the site in order and returns the
// listings that are not in seen and pass filter. Page and entry failures are
// logged and skipped.
func (a *Adapter) Collect(ctx context.Context, seen *utils.SeenSet, filter *services.Filter) []models.Listing {
	var accepted []models.Listing
	pass := make(map[string]struct{})

	for _, pageURL := range a.site.PageURLs() {
		if err := a.limiter.Wait(ctx); err != nil {
			a.logger.Warn("stopping early: %v", err)
			break
		}

		frags, err := a.FetchCandidates(ctx, pageURL)
		if err != nil {
			a.logger.Error("page %s: %v", pageURL, err)
			continue
		}
		a.logger.Info("page %s: %d entries", pageURL, len(frags))

		for _, frag := range frags {
			if ctx.Err() != nil {
				return accepted
			}
			if l, ok := a.processEntry(ctx, frag, seen, pass, filter); ok {
				accepted = append(accepted, l)
			}
		}
	}

	a.logger.Info("%d listings accepted", len(accepted))
	return accepted
}

func (a *Adapter) processEntry(ctx context.Context, frag models.RawFragment, seen *utils.SeenSet, pass map[string]struct{}, filter *services.Filter) (l models.Listing, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("entry %q: panic: %v", frag.Href, r)
			l, ok = models.Listing{}, false
		}
	}()

	id := services.DeriveID(frag.Href, a.site.IDSeparator())
	if id == "" {
		return models.Listing{}, false
	}
	if _, dup := pass[id]; dup || seen.Contains(id) {
		return models.Listing{}, false
	}
	pass[id] = struct{}{}

	if frag.Title == "" && frag.RawPrice == "" {
		a.logger.Debug("entry %s: no title and no price", id)
		return models.Listing{}, false
	}

	// Listings that fail on price alone never need their detail page.
	if ok, reason := filter.CheckPrice(frag.RawPrice); !ok {
		a.logger.Debug("entry %s rejected: %s", id, reason)
		return models.Listing{}, false
	}

	url := services.ResolveURL(a.site.Origin(), frag.Href)
	detail := a.FetchDetail(ctx, url)

	l, err := services.Normalize(a.site.Source(), a.site.Origin(), a.site.IDSeparator(), frag, detail)
	if err != nil {
		a.logger.Debug("entry %s: %v", id, err)
		return models.Listing{}, false
	}

	if ok, reason := filter.Evaluate(l); !ok {
		a.logger.Debug("entry %s rejected: %s", id, reason)
		return models.Listing{}, false
	}
	return l, true
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
