package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders v for display with two decimals, half-even rounding and
// comma thousands separators, e.g. 1234567.891 -> "1,234,567.89".
// The result is for display only and must not be parsed back into a computation.
func FormatAmount(v float64) string {
	fixed := decimal.NewFromFloat(v).StringFixedBank(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return sign + groupThousands(intPart) + "." + fracPart
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
