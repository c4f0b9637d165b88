package drom

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-scraper/models"
)

const indexHTML = `
<html><body>
<div class="bulls">
  <a data-ftid="bulls-list_bull" href="https://moscow.drom.ru/toyota/corolla/51234567.html">
    <span data-ftid="bull_title">Toyota Corolla, 2012</span>
    <span data-ftid="bull_price">450 000 ₽</span>
    <div data-ftid="bull_description">1.6 л, бензин, механика</div>
  </a>
  <a data-ftid="bulls-list_bull" href="/lada/granta/51234568.html?from=list">
    <span data-ftid="bull_title">Лада Гранта, 2018</span>
    <span data-ftid="bull_price">380 000 ₽</span>
  </a>
  <a href="/other/link.html"><span data-ftid="bull_title">not a listing</span></a>
</div>
</body></html>`

const detailHTML = `
<html><body>
<div class="css-1 info-block">Пробег 120 000 км</div>
<div class="header">ignored</div>
<div class="params">Владельцев по ПТС: 2</div>
</body></html>`

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseIndex(t *testing.T) {
	frags := New(nil).ParseIndex(parse(t, indexHTML))

	require.Len(t, frags, 2)
	assert.Equal(t, models.RawFragment{
		Href:      "https://moscow.drom.ru/toyota/corolla/51234567.html",
		Title:     "Toyota Corolla, 2012",
		RawPrice:  "450 000 ₽",
		ShortInfo: "1.6 л, бензин, механика",
	}, frags[0])
	assert.Equal(t, "/lada/granta/51234568.html?from=list", frags[1].Href)
	assert.Empty(t, frags[1].ShortInfo)
}

func TestParseDetail(t *testing.T) {
	text := New(nil).ParseDetail(parse(t, detailHTML))

	assert.Equal(t, "Пробег 120 000 км Владельцев по ПТС: 2", text)
}

func TestParseIndex_EmptyPage(t *testing.T) {
	assert.Empty(t, New(nil).ParseIndex(parse(t, "<html><body></body></html>")))
}

func TestNew_Pages(t *testing.T) {
	assert.Equal(t, DefaultPages, New(nil).PageURLs())
	assert.Equal(t, []string{"https://x"}, New([]string{"https://x"}).PageURLs())
	assert.Equal(t, models.SourceDrom, New(nil).Source())
	assert.Equal(t, "https://www.drom.ru", New(nil).Origin())
}
