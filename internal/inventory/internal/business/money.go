package business

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney: FormatMoney("L.", 1560) -> "L. 1,560.00".
func FormatMoney(symbol string, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	sign := ""
	if v < 0 && math.Round(v*100) != 0 {
		sign = "-"
	}
	amount := moneyPrinter.Sprintf("%.2f", math.Abs(v))

	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return sign + amount
	}
	return sign + symbol + " " + amount
}
