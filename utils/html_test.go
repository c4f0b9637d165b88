package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextAndClassMatches(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div class="card">
			<span class="Price__value">  450 000 ₽ </span>
			<span class="Other">x</span>
			<span>no class</span>
		</div>`))
	require.NoError(t, err)

	spans := doc.Find("span").FilterFunction(ClassMatches(regexp.MustCompile(`Price`)))
	assert.Equal(t, 1, spans.Length())
	assert.Equal(t, "450 000 ₽", Text(spans))
	assert.Equal(t, "", Text(doc.Find("p")))
}
