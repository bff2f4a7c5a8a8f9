// Package money formatea importes según la moneda y el locale del comercio.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter convierte importes decimales a texto ("Ksh 1,234.50" en en-KE).
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter construye el formateador para un código ISO 4217 y un locale BCP 47.
func NewFormatter(code, locale string) (*Formatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, fmt.Errorf("moneda %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// MustFormatter igual que NewFormatter pero entra en pánico ante configuración inválida.
func MustFormatter(code, locale string) *Formatter {
	f, err := NewFormatter(code, locale)
	if err != nil {
		panic(err)
	}
	return f
}

// Format redondea a 2 decimales y antepone el símbolo de la moneda.
func (f *Formatter) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	v, _ := amount.Round(2).Float64()
	symbol := f.printer.Sprint(currency.Symbol(f.unit))
	return sign + symbol + " " + f.printer.Sprint(number.Decimal(v, number.Scale(2)))
}

// Code devuelve el código ISO de la moneda.
func (f *Formatter) Code() string {
	return f.unit.String()
}
