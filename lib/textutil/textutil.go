package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims the string and squashes any run of
// whitespace down to a single space.
func CollapseWhitespace(s string) string {
	s = strings.TrimSpace(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// matches the first decimal number, with or without comma thousands
// separators. a currency symbol in front is not part of the match.
var priceRegex = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`)

var percentRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

var intRegex = regexp.MustCompile(`\d{1,3}(?:,\d{3})+|\d+`)

// ExtractPrice scans text like "$1,299.99" or "Now: 49.99 (save 20%)"
// for the first decimal number. A failed scan is not an error, the
// caller keeps the field null.
func ExtractPrice(s string) (float64, bool) {
	match := priceRegex.FindString(s)
	if match == "" {
		return 0, false
	}
	match = strings.ReplaceAll(match, ",", "")
	value, err := strconv.ParseFloat(match, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

// ExtractPercent pulls the number out of text like "17% OFF".
func ExtractPercent(s string) (float64, bool) {
	groups := percentRegex.FindStringSubmatch(s)
	if len(groups) < 2 {
		return 0, false
	}
	value, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ExtractInt pulls the first integer out of text like "(1,234)" or
// "123 reviews".
func ExtractInt(s string) (int64, bool) {
	match := intRegex.FindString(s)
	if match == "" {
		return 0, false
	}
	match = strings.ReplaceAll(match, ",", "")
	value, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Truncate cuts the string at max runes, appending "..." when it had
// to cut anything off.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
