// Package avito reads listings from avito.ru.
package avito

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"car-scraper/models"
	"car-scraper/utils"
)

const origin = "https://www.avito.ru"

// PriceMissing stands in for the price when an entry shows none. It carries
// no digits, so such entries never pass the price filter.
const PriceMissing = "Цена не указана"

// DefaultPages are the first two pages of cars in Moscow.
var DefaultPages = []string{
	"https://www.avito.ru/moskva/avtomobili",
	"https://www.avito.ru/moskva/avtomobili?p=2",
}

var descriptionClass = regexp.MustCompile(`description`)

// Site implements the avito.ru selectors. Listing URLs end in
// "<slug>_<id>", hence the "_" separator.
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

func (s *Site) Source() models.Source { return models.SourceAvito }
func (s *Site) Origin() string        { return origin }
func (s *Site) PageURLs() []string    { return s.pages }
func (s *Site) IDSeparator() string   { return "_" }

func (s *Site) ParseIndex(doc *goquery.Document) []models.RawFragment {
	var frags []models.RawFragment
	doc.Find(`div[data-marker="item"]`).Each(func(_ int, item *goquery.Selection) {
		link := item.Find(`a[data-marker="item-title"]`).First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")

		price := utils.Text(item.Find(`span[data-marker="item-price"]`))
		if item.Find(`span[data-marker="item-price"]`).Length() == 0 {
			price = PriceMissing
		}

		frags = append(frags, models.RawFragment{
			Href:      href,
			Title:     utils.Text(link),
			RawPrice:  price,
			ShortInfo: utils.Text(item.Find("div").FilterFunction(utils.ClassMatches(descriptionClass))),
		})
	})
	return frags
}

func (s *Site) ParseDetail(doc *goquery.Document) string {
	return doc.Find(`div[data-marker="item-view/item-description"]`).First().Text()
}
