package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatPrice formats an amount the way the shop shows prices (es-AR): "$12.500",
// "$1.234,5". Dot is the thousands separator and comma the decimal separator.
func FormatPrice(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	var b strings.Builder
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}
	b.WriteString(groupThousands(strconv.FormatInt(whole, 10)))

	if frac != 0 {
		decimals := strings.TrimRight(strconv.FormatInt(frac+100, 10)[1:], "0")
		b.WriteByte(',')
		b.WriteString(decimals)
	}
	return b.String()
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/3)

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// ParseAmount parses a spreadsheet price or stock cell after dropping every character
// that is not a digit or a dot ("$ 1500" -> 1500). The second value is false when
// nothing numeric remains.
func ParseAmount(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return parseLeadingFloat(b.String())
}

// ParseNumber parses the leading number of a cell ("10 unidades" -> 10). Used for stock.
func ParseNumber(raw string) (float64, bool) {
	return parseLeadingFloat(strings.TrimSpace(raw))
}

// parseLeadingFloat accepts the longest numeric prefix, like a lenient float parser
func parseLeadingFloat(s string) (float64, bool) {
	end := 0
	seenDigit, seenDot := false, false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
