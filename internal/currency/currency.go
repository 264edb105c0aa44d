// Package currency parses and renders the display-price strings the storefront
// persists, e.g. "₹1,23,456.00". Amounts use Indian digit grouping: the last
// three digits form one group, every group before that has two digits.
package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const Symbol = "₹"

// Parse converts a display price into a numeric amount. The currency symbol,
// commas and whitespace are stripped before parsing, so both "₹1,234.00" and
// "1234" are accepted.
func Parse(s string) (float64, error) {
	cleaned := strings.NewReplacer(Symbol, "", ",", "", " ", "", " ", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return 0, fmt.Errorf("empty price string %q", s)
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price string %q: %w", s, err)
	}

	return amount, nil
}

// Format renders an amount as a display price with two decimals and the
// currency symbol, e.g. 1677 -> "₹1,677.00".
func Format(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	// Round to paise first so grouping sees the carried-over rupee.
	amount = math.Round(amount*100) / 100

	whole := int64(amount)
	fraction := int64(math.Round((amount - float64(whole)) * 100))

	grouped := groupIndian(strconv.FormatInt(whole, 10))

	sign := ""
	if negative {
		sign = "-"
	}

	return fmt.Sprintf("%s%s%s.%02d", sign, Symbol, grouped, fraction)
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string

	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}

	if head != "" {
		groups = append([]string{head}, groups...)
	}

	groups = append(groups, tail)

	return strings.Join(groups, ",")
}
