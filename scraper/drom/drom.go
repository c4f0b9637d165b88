// Package drom reads listings from drom.ru.
package drom

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"car-scraper/models"
	"car-scraper/utils"
)

const origin = "https://www.drom.ru"

// DefaultPages are the first two pages of the all-regions used car feed.
var DefaultPages = []string{
	"https://www.drom.ru/auto/all/",
	"https://www.drom.ru/auto/all/page2/",
}

var detailClass = regexp.MustCompile(`info|description|params`)

// Site implements the drom.ru selectors.
type Site struct {
	pages []string
}

// New returns a Site that scrapes pages, or DefaultPages when pages is empty.
func New(pages []string) *Site {
	if len(pages) == 0 {
		pages = DefaultPages
	}
	return &Site{pages: pages}
}

func (s *Site) Source() models.Source { return models.SourceDrom }
func (s *Site) Origin() string        { return origin }
func (s *Site) PageURLs() []string    { return s.pages }
func (s *Site) IDSeparator() string   { return "" }

func (s *Site) ParseIndex(doc *goquery.Document) []models.RawFragment {
	var frags []models.RawFragment
	doc.Find(`a[data-ftid="bulls-list_bull"]`).Each(func(_ int, item *goquery.Selection) {
		href, _ := item.Attr("href")
		frags = append(frags, models.RawFragment{
			Href:      href,
			Title:     utils.Text(item.Find(`span[data-ftid="bull_title"]`)),
			RawPrice:  utils.Text(item.Find(`span[data-ftid="bull_price"]`)),
			ShortInfo: utils.Text(item.Find(`div[data-ftid="bull_description"]`)),
		})
	})
	return frags
}

// ParseDetail joins the text of every info, description or params block.
func (s *Site) ParseDetail(doc *goquery.Document) string {
	var parts []string
	doc.Find("div").FilterFunction(utils.ClassMatches(detailClass)).Each(func(_ int, sec *goquery.Selection) {
		parts = append(parts, sec.Text())
	})
	return strings.Join(parts, " ")
}
