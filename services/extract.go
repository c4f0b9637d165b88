package services

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// nonDigitRegexp matches everything ExtractPrice throws away
	nonDigitRegexp = regexp.MustCompile(`[^0-9]`)

	// ownerCountRegexps are tried in order; the first capture group is the count.
	ownerCountRegexps = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*владел`),
		regexp.MustCompile(`(\d+)\s*хозя`),
		regexp.MustCompile(`(\d+)\s*собствен`),
		regexp.MustCompile(`(\d+)\s*owner`),
		regexp.MustCompile(`владел[а-яё]*\s*:\s*(\d+)`),
		regexp.MustCompile(`owners?\s*:\s*(\d+)`),
	}

	ownerPhrases = []struct {
		count   int
		phrases []string
	}{
		{1, []string{"один владелец", "1 владелец", "one owner"}},
		{2, []string{"два владельца", "2 владельца", "two owners"}},
		{3, []string{"три владельца", "3 владельца", "three owners"}},
	}
)

// ExtractPrice keeps only the decimal digits of text and parses them.
// "300 000 ₽" and "300000" both yield 300000. Returns 0 when no number can
// be recovered.
func ExtractPrice(text string) int {
	digits := nonDigitRegexp.ReplaceAllString(text, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ExtractOwners looks for an owner count in free text. ok is false when the
// text carries no owner information at all, which is different from a count
// of zero.
func ExtractOwners(text string) (count int, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			count, ok = 0, false
		}
	}()

	lower := strings.ToLower(text)

	for _, re := range ownerCountRegexps {
		m := re.FindStringSubmatch(lower)
		if len(m) < 2 {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n, true
	}

	for _, p := range ownerPhrases {
		for _, phrase := range p.phrases {
			if strings.Contains(lower, phrase) {
				return p.count, true
			}
		}
	}

	return 0, false
}
