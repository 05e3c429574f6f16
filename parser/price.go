// Package parser extracts structured values from the free-text price and
// rating strings that accommodation listings carry. Parsing happens once at
// the listing-source boundary; everything downstream works with the
// structured results.
package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"ai-travel-agent/models"
)

var (
	// "$600 total", "$1,200 total"
	totalPriceRe = regexp.MustCompile(`\$\s*([\d]{1,3}(?:,\d{3})*(?:\.\d+)?)\s*total`)
	// "$120 night", "$120/night", "$120 per night"
	nightPriceRe = regexp.MustCompile(`\$\s*([\d]{1,3}(?:,\d{3})*(?:\.\d+)?)\s*(?:per\s+night|/\s*night|night)`)
	// bare "$120" as a last resort
	barePriceRe = regexp.MustCompile(`\$\s*([\d]{1,3}(?:,\d{3})*(?:\.\d+)?)`)
)

// ParsePriceText extracts a structured price from a listing price string such
// as "$120 night · $600 total". An embedded total wins over a nightly rate;
// a bare dollar amount is treated as nightly. Returns false if no price is
// found.
func ParsePriceText(text string) (models.Money, bool) {
	if m := totalPriceRe.FindStringSubmatch(text); len(m) == 2 {
		if cents, err := parseCents(m[1]); err == nil {
			return models.Money{AmountCents: cents, PerNight: false}, true
		}
	}
	if m := nightPriceRe.FindStringSubmatch(text); len(m) == 2 {
		if cents, err := parseCents(m[1]); err == nil {
			return models.Money{AmountCents: cents, PerNight: true}, true
		}
	}
	if m := barePriceRe.FindStringSubmatch(text); len(m) == 2 {
		if cents, err := parseCents(m[1]); err == nil {
			return models.Money{AmountCents: cents, PerNight: true}, true
		}
	}
	return models.Money{}, false
}

// parseCents converts a dollar amount string (commas allowed) to cents.
func parseCents(amount string) (int64, error) {
	cleaned := strings.ReplaceAll(amount, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(value * 100)), nil
}

// ParseBudget converts a user-supplied budget string to a dollar amount.
// Currency symbols, commas and surrounding whitespace are tolerated:
// "$1,200" parses to 1200. The result must be positive.
func ParseBudget(text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty budget value")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid budget value %q: %w", text, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("budget must be positive, got %v", value)
	}
	return value, nil
}
