package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a centavo amount as a decimal BRL string, e.g. 1250 -> "12.50"
func FormatBRL(centavos int64) string {
	return decimal.NewFromInt(centavos).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// ParseBRL converts a decimal BRL amount into centavos. Amounts with more
// than two decimal places are rejected rather than silently rounded.
func ParseBRL(amount decimal.Decimal) (int64, error) {
	centavos := amount.Mul(decimal.NewFromInt(100))
	if !centavos.Equal(centavos.Truncate(0)) {
		return 0, errors.New("amount cannot have sub-centavo precision")
	}
	return centavos.IntPart(), nil
}
