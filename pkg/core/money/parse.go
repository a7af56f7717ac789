// Package money parses free-form currency values from raw exports.
//
// The policy is deliberately lossy: anything that cannot be read as a number
// becomes 0.0, so downstream math never has to branch on parse failures. The
// cost is that a legitimately-zero amount and an unparsable one are
// indistinguishable; callers that care about that distinction must check the
// raw cell themselves.
package money

import (
	"strconv"
	"strings"

	"practice_sale/pkg/models"
)

var symbolReplacer = strings.NewReplacer(
	",", "",
	"$", "",
	"€", "",
	"£", "",
	" ", "",
	"\t", "",
)

// Parse converts an arbitrary scalar into a float64.
// Missing/empty values and anything unparsable after cleaning map to 0.0.
// Parenthesized values follow the accounting convention and come back negative.
func Parse(v interface{}) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case models.Cell:
		return ParseCell(t)
	case string:
		return parseString(t)
	default:
		return 0
	}
}

// ParseCell converts one raw table cell into a float64 under the same policy.
func ParseCell(c models.Cell) float64 {
	switch c.Kind {
	case models.KindNumber:
		return c.Num
	case models.KindString:
		return parseString(c.Str)
	default:
		// Missing and date cells carry no amount.
		return 0
	}
}

// ParseCellOK is the coercion-layer variant: it reports whether the cell held
// a readable amount instead of silently collapsing failures to zero. The
// transformer uses this to represent unparsable numerics as missing rather
// than as a zero amount.
func ParseCellOK(c models.Cell) (float64, bool) {
	switch c.Kind {
	case models.KindNumber:
		return c.Num, true
	case models.KindString:
		return parseStringOK(c.Str)
	default:
		return 0, false
	}
}

func parseString(s string) float64 {
	v, _ := parseStringOK(s)
	return v
}

func parseStringOK(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "—" || strings.EqualFold(s, "n/a") {
		return 0, false
	}

	// Parentheses mark negatives in accounting exports: (500) == -500.
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.Trim(s, "()")
	}

	s = symbolReplacer.Replace(s)
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		val = -val
	}
	return val, true
}
