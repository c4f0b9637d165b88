package services

import (
	"fmt"

	"car-scraper/models"
)

// Filter applies the price and owner-count criteria to listings.
type Filter struct {
	cfg models.FilterConfig
}

// NewFilter creates a Filter with the given bounds.
func NewFilter(cfg models.FilterConfig) *Filter {
	return &Filter{cfg: cfg}
}

// Config returns the bounds the filter was built with.
func (f *Filter) Config() models.FilterConfig {
	return f.cfg
}

// CheckPrice runs the price steps of Evaluate on a raw price string alone.
// Adapters use it to skip detail fetches for listings that cannot pass.
func (f *Filter) CheckPrice(rawPrice string) (bool, string) {
	price := ExtractPrice(rawPrice)
	if price == 0 {
		return false, "price undeterminable"
	}
	if price < f.cfg.MinPrice || price > f.cfg.MaxPrice {
		return false, fmt.Sprintf("price %d outside range %d-%d", price, f.cfg.MinPrice, f.cfg.MaxPrice)
	}
	return true, "ok"
}

// Evaluate decides whether a listing should be notified. Checks run in order
// and the first failure wins. A listing without any owner information passes
// the owner check.
func (f *Filter) Evaluate(l models.Listing) (bool, string) {
	if ok, reason := f.CheckPrice(l.RawPrice); !ok {
		return false, reason
	}

	if owners, known := ListingOwners(l); known && owners > f.cfg.MaxOwners {
		return false, fmt.Sprintf("too many owners: %d (max %d)", owners, f.cfg.MaxOwners)
	}

	return true, "ok"
}

// ListingOwners runs the owner extractor over the detail text followed by the
// short info.
func ListingOwners(l models.Listing) (int, bool) {
	return ExtractOwners(l.DetailText + " " + l.ShortInfo)
}
