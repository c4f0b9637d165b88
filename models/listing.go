package models

import "time"

// Source identifies the classifieds site a listing came from.
type Source int

const (
	SourceDrom Source = iota
	SourceAutoRu
	SourceAvito
)

// String returns the display name used in notifications and logs.
func (s Source) String() string {
	switch s {
	case SourceDrom:
		return "Drom.ru"
	case SourceAutoRu:
		return "Auto.ru"
	case SourceAvito:
		return "Avito.ru"
	default:
		return "unknown"
	}
}

// Key returns the short lower-case name used in config and log prefixes.
func (s Source) Key() string {
	switch s {
	case SourceDrom:
		return "drom"
	case SourceAutoRu:
		return "autoru"
	case SourceAvito:
		return "avito"
	default:
		return "unknown"
	}
}

// RawFragment holds the fields of one index-page entry exactly as scraped,
// before any normalization.
type RawFragment struct {
	Href      string
	Title     string
	RawPrice  string
	ShortInfo string
}

// Listing is the canonical record produced by the normalizer. It is treated
// as an immutable value once constructed.
type Listing struct {
	ID         string
	Title      string
	RawPrice   string
	ShortInfo  string
	DetailText string
	URL        string
	Source     Source
}

// FilterConfig holds the inclusive bounds applied by the criteria filter.
type FilterConfig struct {
	MinPrice  int
	MaxPrice  int
	MaxOwners int
}

// CycleReport summarises one scrape-and-notify cycle.
type CycleReport struct {
	CycleID    string
	StartedAt  time.Time
	FinishedAt time.Time

	Accepted int
	Notified int
	Failed   int

	NotifiedBySource map[Source]int
	MinPrice         int
	MaxPrice         int

	Persisted bool
}
