// Package autoru reads listings from auto.ru.
package autoru

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"car-scraper/models"
	"car-scraper/utils"
)

const origin = "https://auto.ru"

// DefaultPages are the first two pages of used cars in Moscow.
var DefaultPages = []string{
	"https://auto.ru/moskva/cars/used/",
	"https://auto.ru/moskva/cars/used/?page=2",
}

const infoItems = 3

var (
	titleClass       = regexp.MustCompile(`Link.*OfferTitle`)
	priceClass       = regexp.MustCompile(`Price`)
	listItemClass    = regexp.MustCompile(`ListItem`)
	descriptionClass = regexp.MustCompile(`Description`)
)

// Site implements the auto.ru selectors. Auto.ru class names are generated,
// so elements are matched by class fragments.
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

func (s *Site) Source() models.Source { return models.SourceAutoRu }
func (s *Site) Origin() string        { return origin }
func (s *Site) PageURLs() []string    { return s.pages }
func (s *Site) IDSeparator() string   { return "" }

func (s *Site) ParseIndex(doc *goquery.Document) []models.RawFragment {
	var frags []models.RawFragment
	doc.Find(`a[href*="/cars/used/sale/"]`).Each(func(_ int, item *goquery.Selection) {
		href, _ := item.Attr("href")
		spans := item.Find("span")

		var info []string
		spans.FilterFunction(utils.ClassMatches(listItemClass)).EachWithBreak(func(i int, li *goquery.Selection) bool {
			info = append(info, strings.TrimSpace(li.Text()))
			return len(info) < infoItems
		})

		frags = append(frags, models.RawFragment{
			Href:      href,
			Title:     utils.Text(spans.FilterFunction(utils.ClassMatches(titleClass))),
			RawPrice:  utils.Text(spans.FilterFunction(utils.ClassMatches(priceClass))),
			ShortInfo: strings.Join(info, " | "),
		})
	})
	return frags
}

// ParseDetail returns the seller description block.
func (s *Site) ParseDetail(doc *goquery.Document) string {
	return doc.Find("div").FilterFunction(utils.ClassMatches(descriptionClass)).First().Text()
}
