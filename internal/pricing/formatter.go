package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts in the store currency, e.g. "EGP 1,250.00".
type Formatter struct {
	unit    currency.Unit
	scale   int
	printer *message.Printer
}

func NewFormatter(currencyCode string, tag language.Tag) (*Formatter, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("parsing currency %q: %w", currencyCode, err)
	}

	scale, _ := currency.Standard.Rounding(unit)

	return &Formatter{
		unit:    unit,
		scale:   scale,
		printer: message.NewPrinter(tag),
	}, nil
}

func (f *Formatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(int32(f.scale)).InexactFloat64()
	return f.unit.String() + " " + f.printer.Sprintf(fmt.Sprintf("%%.%df", f.scale), rounded)
}

// Round rounds amount to the currency's standard precision.
func (f *Formatter) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(int32(f.scale))
}

func (f *Formatter) CurrencyCode() string {
	return f.unit.String()
}
