package parser

import (
	"regexp"
	"strconv"
)

// Rating text shows up in several shapes depending on where the listing came
// from: "4.95 (124 reviews)", "4.8 out of 5 (124)", "4.95 · 124 reviews".
var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+\.\d+)(?:\s+out of \d+)?\s*\((\d+)[^\d]*\)`),
	regexp.MustCompile(`(\d+\.\d+)\s+\((\d+)\)`),
	regexp.MustCompile(`(\d+\.\d+).*?(\d+)\s+reviews`),
}

// bare rating with no review count, e.g. "4.7"
var bareRatingRe = regexp.MustCompile(`(\d+\.\d+)`)

// ParseRating extracts a star rating and review count from a listing rating
// string. Unrecognized text yields (0, 0); a bare rating yields a zero review
// count.
func ParseRating(text string) (float64, int) {
	for _, re := range ratingPatterns {
		m := re.FindStringSubmatch(text)
		if len(m) != 3 {
			continue
		}
		rating, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		reviews, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		return rating, reviews
	}

	if m := bareRatingRe.FindStringSubmatch(text); len(m) == 2 {
		if rating, err := strconv.ParseFloat(m[1], 64); err == nil {
			return rating, 0
		}
	}
	return 0, 0
}
