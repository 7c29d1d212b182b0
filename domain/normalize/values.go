// Package normalize converts raw cell tokens into canonical typed values.
// Every function here is total: it returns a value or an explicit failure,
// never panics, and is idempotent over its own output.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"marketpulse/domain/core"
	"marketpulse/domain/fields"
	"marketpulse/domain/table"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	currencyTokens = []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY", "usd", "eur", "gbp", "jpy"}
)

// Currency parses a monetary token into a fixed-point decimal. Symbols,
// codes and percent signs are stripped; parentheses mean negative; the
// rightmost separator followed by exactly 1-2 digits is the decimal point,
// every other separator is thousands grouping.
func Currency(raw string) (table.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", core.ErrInvalidDecimal)
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidDecimal, raw)
	}

	// Locate the decimal separator: the rightmost '.' or ',' with 1-2
	// trailing digits. Everything else is a grouping separator.
	decimalIdx := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' || s[i] == ',' {
			trailing := len(s) - i - 1
			if trailing >= 1 && trailing <= 2 {
				decimalIdx = i
			}
			break
		}
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			b.WriteByte(s[i])
		case i == decimalIdx:
			b.WriteByte('.')
		case s[i] == '.' || s[i] == ',':
			// grouping separator, dropped
		default:
			return 0, fmt.Errorf("%w: %q", core.ErrInvalidDecimal, raw)
		}
	}
	clean := b.String()
	if neg {
		clean = "-" + clean
	}
	return table.ParseDecimal(clean)
}

// dateLayouts are tried in fixed priority order, ISO first. The order is
// the tie-break for ambiguous inputs like 3/4/2024.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
	"2/1/2006",
	"1-2-2006",
	"2006/1/2",
}

// Date parses a date token into a calendar date at midnight UTC. ISO input
// always round-trips, which makes the function idempotent through its
// canonical form.
func Date(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", core.ErrInvalidDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, raw)
}

// Text canonicalizes an identifier token: lowercase, trimmed, underscores
// and hyphens become spaces, internal whitespace runs collapse to one
// space.
func Text(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// platformGroups maps containment tokens to canonical platform codes.
// Order matters only for overlapping tokens; first hit wins.
var platformGroups = []struct {
	code   string
	tokens []string
}{
	{"linkedin", []string{"linkedin"}},
	{"facebook", []string{"facebook", "meta", "fb ads"}},
	{"instagram", []string{"instagram"}},
	{"google", []string{"google", "adwords", "youtube"}},
	{"microsoft", []string{"microsoft", "bing"}},
	{"tiktok", []string{"tiktok", "tik tok"}},
	{"twitter", []string{"twitter", "x ads"}},
	{"pinterest", []string{"pinterest"}},
	{"snapchat", []string{"snapchat", "snap ads"}},
}

// PlatformName resolves a free-form platform label to a canonical code by
// containment lookup ("LinkedIn Ads" -> "linkedin"). Unrecognized labels
// pass through lowercased and trimmed; downstream filtering treats them as
// simply non-matching, never as an error.
func PlatformName(raw string) string {
	s := Text(raw)
	for _, group := range platformGroups {
		for _, tok := range group.tokens {
			if strings.Contains(s, tok) {
				return group.code
			}
		}
	}
	return s
}

// Integer parses a count token, tolerating grouping separators and a zero
// fractional part ("1,234", "42.00").
func Integer(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("invalid integer: empty value")
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	d, err := Currency(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %q", raw)
	}
	if d.Cents()%100 != 0 {
		return 0, fmt.Errorf("invalid integer: %q has a fractional part", raw)
	}
	return d.Cents() / 100, nil
}

// ForType coerces one raw token into a Cell for the given semantic type.
// Empty tokens become missing cells; unparsable tokens become invalid
// cells carrying the original value.
func ForType(semantic fields.SemanticType, raw string) table.Cell {
	if strings.TrimSpace(raw) == "" {
		return table.NewMissingCell()
	}
	switch semantic {
	case fields.SemanticCurrency:
		d, err := Currency(raw)
		if err != nil {
			return table.NewInvalidCell(raw)
		}
		return table.NewDecimalCell(d, raw)
	case fields.SemanticInteger:
		n, err := Integer(raw)
		if err != nil {
			return table.NewInvalidCell(raw)
		}
		return table.NewDecimalCell(table.NewDecimal(n, 0), raw)
	case fields.SemanticDate:
		t, err := Date(raw)
		if err != nil {
			return table.NewInvalidCell(raw)
		}
		return table.NewDateCell(t, raw)
	case fields.SemanticPlatform:
		return table.NewTextCell(PlatformName(raw))
	default:
		return table.NewTextCell(Text(raw))
	}
}
