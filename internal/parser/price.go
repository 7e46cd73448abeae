package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var offerPricePattern = regexp.MustCompile(`[\d.,]+`)

// ParseListingPrice converts a localized amount such as "R$ 1.234,56" into
// 1234.56. It returns nil when the text is not a number once the currency
// symbol and separators are removed.
func ParseListingPrice(text string) *float64 {
	s := strings.ReplaceAll(text, "R$", "")
	return parseDecimalComma(s)
}

// ParseOfferPrice takes the first numeric token of an offer's price text,
// e.g. "à vista R$ 10,00 no Pix", and parses it the same way.
func ParseOfferPrice(text string) *float64 {
	token := offerPricePattern.FindString(text)
	if token == "" {
		return nil
	}
	return parseDecimalComma(token)
}

func parseDecimalComma(s string) *float64 {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
