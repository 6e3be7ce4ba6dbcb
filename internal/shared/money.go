package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brlPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders a monetary value in Brazilian real display form,
// matching the rounding applied by the aggregation engine.
func FormatBRL(v float64) string {
	return brlPrinter.Sprintf("R$ %.2f", v)
}
