// Package weight converts the loosely shaped weight values coming from the
// products sheet and the cart API into canonical integer gram counts.
package weight

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Normalize converts a weight value to grams. Accepted inputs are nil,
// numbers (rounded to the nearest integer) and strings like "500g", "1.5kg"
// or "750". Anything unparseable normalizes to 0; Normalize never fails.
// The function is idempotent: a canonical gram count maps to itself.
func Normalize(v any) int {
	switch w := v.(type) {
	case nil:
		return 0
	case int:
		return w
	case int64:
		return int(w)
	case float32:
		return int(math.Round(float64(w)))
	case float64:
		return int(math.Round(w))
	case string:
		return parseString(w)
	default:
		return parseString(fmt.Sprint(v))
	}
}

func parseString(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	mult := 1.0
	// "kg" first: every kg suffix also ends with "g".
	if rest, ok := strings.CutSuffix(s, "kg"); ok {
		s, mult = strings.TrimSpace(rest), 1000
	} else if rest, ok := strings.CutSuffix(s, "g"); ok {
		s = strings.TrimSpace(rest)
	}
	n, ok := leadingFloat(s)
	if !ok {
		return 0
	}
	return int(math.Round(n * mult))
}

// leadingFloat parses the longest numeric prefix of s: an optional sign,
// digits and at most one decimal point. Trailing junk is ignored, so
// "1.5.2" reads as 1.5.
func leadingFloat(s string) (float64, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	dot := false
	for i < len(s) {
		if s[i] >= '0' && s[i] <= '9' {
			i++
			continue
		}
		if s[i] == '.' && !dot {
			dot = true
			i++
			continue
		}
		break
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Label renders a gram count the way the storefront displays it. The four
// stocked tiers use their fixed labels, other whole kilogram counts render
// as "<N>kg" and everything else as a raw gram count.
func Label(grams int) string {
	switch grams {
	case 250:
		return "250g"
	case 500:
		return "500g"
	case 1000:
		return "1kg"
	case 2000:
		return "2kg"
	}
	if grams >= 1000 && grams%1000 == 0 {
		return fmt.Sprintf("%dkg", grams/1000)
	}
	return fmt.Sprintf("%dg", grams)
}
