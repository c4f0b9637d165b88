package autoru

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexHTML = `
<html><body>
<div class="ListingItem">
  <a class="Link ListingItemTitle__link" href="https://auto.ru/cars/used/sale/toyota/camry/1118880001-a1b2c3/">
    <span class="Link ListingItemTitle__OfferTitle">Toyota Camry 2.5 AT</span>
    <span class="ListingItemPrice__content">490 000 ₽</span>
    <span class="ListingItemTechSummary__ListItem">2.5 л / 181 л.с.</span>
    <span class="ListingItemTechSummary__ListItem">автомат</span>
    <span class="ListingItemTechSummary__ListItem">седан</span>
    <span class="ListingItemTechSummary__ListItem">передний</span>
  </a>
</div>
<a href="/cars/used/sale/lada/vesta/1118880002-d4e5f6/">
  <span class="Link OfferTitle">LADA Vesta</span>
  <span class="Price">410 000 ₽</span>
</a>
<a href="/cars/new/group/kia/rio/">new car, ignored</a>
</body></html>`

const detailHTML = `
<html><body>
<div class="CardDescription__text">Один владелец, сервисная книжка.</div>
<div class="CardDescription__other">second block</div>
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
	assert.Equal(t, "https://auto.ru/cars/used/sale/toyota/camry/1118880001-a1b2c3/", frags[0].Href)
	assert.Equal(t, "Toyota Camry 2.5 AT", frags[0].Title)
	assert.Equal(t, "490 000 ₽", frags[0].RawPrice)
	assert.Equal(t, "2.5 л / 181 л.с. | автомат | седан", frags[0].ShortInfo)

	assert.Equal(t, "LADA Vesta", frags[1].Title)
	assert.Equal(t, "410 000 ₽", frags[1].RawPrice)
	assert.Empty(t, frags[1].ShortInfo)
}

func TestParseDetail_FirstDescription(t *testing.T) {
	assert.Equal(t, "Один владелец, сервисная книжка.", New(nil).ParseDetail(parse(t, detailHTML)))
}

func TestParseDetail_Missing(t *testing.T) {
	assert.Empty(t, New(nil).ParseDetail(parse(t, "<div class='Other'>x</div>")))
}
