// Package format renders metric values for display.
package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "CA$",
	"AUD": "A$",
	"JPY": "¥",
	"CHF": "CHF ",
	"MXN": "MX$",
}

// Symbol returns the display prefix for an ISO currency code. Unknown codes
// are printed as the code followed by a space.
func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = "USD"
	}
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code + " "
}

// Currency formats whole currency units with thousands grouping, e.g. -$1,234
func Currency(amount int, code string) string {
	sign := ""
	value := int64(amount)
	if value < 0 {
		sign = "-"
		value = -value
	}
	return sign + Symbol(code) + humanize.Comma(value)
}

// SignedCurrency is Currency with an explicit plus on gains
func SignedCurrency(amount int, code string) string {
	if amount > 0 {
		return "+" + Currency(amount, code)
	}
	return Currency(amount, code)
}

// Percent formats a ratio as a whole percentage, rounding half away from zero
func Percent(ratio float64) string {
	return percent(decimal.NewFromFloat(ratio).Mul(decimal.NewFromInt(100)))
}

// PercentOf formats num/den as a whole percentage. A zero den gives "0%".
func PercentOf(num, den int) string {
	if den == 0 {
		return "0%"
	}
	d := decimal.NewFromInt(int64(num)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(den)))
	return percent(d)
}

func percent(d decimal.Decimal) string {
	return d.Round(0).String() + "%"
}

// Duration formats hours and minutes as "Xh Ym", carrying minutes over 59
func Duration(hours, minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours += minutes / 60
	return fmt.Sprintf("%dh %dm", hours, minutes%60)
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as block characters. When there are more values
// than width they are sampled evenly; width <= 0 keeps every value.
func Sparkline(values []int, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width > 0 && len(values) > width {
		sampled := make([]int, width)
		for i := range sampled {
			sampled[i] = values[i*len(values)/width]
		}
		sampled[width-1] = values[len(values)-1]
		values = sampled
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = (v - lo) * (len(sparkBlocks) - 1) / (hi - lo)
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
