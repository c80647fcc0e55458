package transaction

import (
	"strings"

	constant "github.com/LerianStudio/payments-engine/payments/constants"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a plain decimal such as "1.5" or "0.0001".
// Values with non-zero digits past the fourth fractional place are rejected;
// trailing zeros are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, NewDomainError(ErrorInvalidInput, "amount", "amount is empty")
	}

	if strings.ContainsAny(s, "eE") {
		return decimal.Decimal{}, NewDomainError(ErrorInvalidInput, "amount", "exponent notation is not accepted")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, NewDomainError(ErrorInvalidInput, "amount", "amount is not a decimal number")
	}

	if !fitsScale(d) {
		return decimal.Decimal{}, NewDomainError(ErrorInvalidInput, "amount", "amount has more than four fractional digits")
	}

	return d, nil
}

// FormatAmount renders d with exactly four fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(constant.AmountScale)
}

func fitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(constant.AmountScale))
}
