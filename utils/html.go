package utils

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text returns the trimmed text content of the first node in sel.
func Text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.First().Text())
}

// ClassMatches returns a filter that keeps nodes whose class attribute
// matches re.
func ClassMatches(re *regexp.Regexp) func(int, *goquery.Selection) bool {
	return func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		return ok && re.MatchString(class)
	}
}
