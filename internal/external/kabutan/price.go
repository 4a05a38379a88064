package kabutan

import (
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Current returns the latest price and PER for a company. Both are nil when
// the page does not carry them; an error means the whole lookup failed.
// Implements contracts.PriceLookup.
func (c *Client) Current(ctx context.Context, code string) (*float64, *float64, error) {
	doc, err := c.fetchDocument(ctx, normalizeCode(code))
	if err != nil {
		return nil, nil, err
	}

	price := parsePrice(doc)
	per := parsePER(doc)

	c.logger.WithFields(map[string]interface{}{
		"code":          code,
		"price_found":   price != nil,
		"per_found":     per != nil,
	}).Debug("Price lookup completed")

	return price, per, nil
}

// normalizeCode maps a J-Quants 5-character code to the 4-character form the
// price sites use: a trailing zero is padding, anything else (e.g. 228A, or
// preferred-stock codes like 25935) is kept as is.
func normalizeCode(code string) string {
	if len(code) == 5 && strings.HasSuffix(code, "0") {
		return code[:4]
	}
	return code
}

// parsePrice extracts the current price from the stock header.
func parsePrice(doc *goquery.Document) *float64 {
	text := doc.Find("span.kabuka").First().Text()
	return parseNumber(text)
}

// parsePER extracts the PER from the stock info table. A dash means the
// company has no meaningful PER (loss-making); that maps to nil.
func parsePER(doc *goquery.Document) *float64 {
	var per *float64
	doc.Find("#stockinfo_i3 table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		header := strings.TrimSpace(row.Find("th").First().Text())
		if header != "PER" {
			return true
		}
		per = parseNumber(row.Find("td").First().Text())
		return false
	})
	return per
}

// parseNumber parses a display value like "2,500.5円" or "12.3倍".
// Returns nil for empty or dash values.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"円", "倍", "%"} {
		s = strings.TrimSuffix(s, suffix)
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if s == "" || s == "-" || s == "－" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
