package pricing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

// MaxAmount is the exclusive upper bound for prices, fees and rates.
var MaxAmount = decimal.New(1, 9)

var amountPattern = regexp.MustCompile(`^\d+([.,]\d+)?$`)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidRate   = errors.New("invalid exchange rate")
)

// Quote is the full breakdown of one automatically priced item.
type Quote struct {
	Category   Category
	Amount     decimal.Decimal // yuan
	Rate       decimal.Decimal
	Base       decimal.Decimal // Amount * Rate, rounded
	Fee        decimal.Decimal
	Delivery   decimal.Decimal
	Commission decimal.Decimal
	Total      decimal.Decimal
}

// Calculate converts amount by rate and adds the category surcharges.
//
// Rounding happens at two independent points: the converted base and the
// final total. The percentage commission, when configured, is rounded on its
// own as well.
func (t *Table) Calculate(c Category, amount, rate decimal.Decimal) (Quote, error) {
	tariff, ok := t.tariffs[c]
	if !ok {
		return Quote{}, fmt.Errorf("%q: %w", c, ErrUnknownCategory)
	}
	if tariff.Manual {
		return Quote{}, fmt.Errorf("%q: %w", c, ErrManualQuote)
	}
	if amount.IsNegative() || amount.GreaterThanOrEqual(MaxAmount) {
		return Quote{}, fmt.Errorf("%s: %w", amount, ErrInvalidAmount)
	}
	if !rate.IsPositive() || rate.GreaterThanOrEqual(MaxAmount) {
		return Quote{}, fmt.Errorf("%s: %w", rate, ErrInvalidRate)
	}

	q := Quote{
		Category: c,
		Amount:   amount,
		Rate:     rate,
		Fee:      tariff.Fee,
		Delivery: tariff.Delivery,
	}

	q.Base = amount.Mul(rate).Round(moneyPlaces)
	q.Commission = q.Base.Mul(tariff.CommissionRate).Round(moneyPlaces)
	q.Total = q.Base.Add(q.Fee).Add(q.Delivery).Add(q.Commission).Round(moneyPlaces)

	return q, nil
}

// ParseAmount parses a non-negative decimal typed by a user. Both "." and ","
// are accepted as the decimal separator; signs, exponents and thousands
// separators are not. Values of MaxAmount and above are rejected.
func ParseAmount(text string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty input: %w", ErrInvalidAmount)
	}
	if !amountPattern.MatchString(cleaned) {
		return decimal.Zero, fmt.Errorf("%q: %w", text, ErrInvalidAmount)
	}

	v, err := decimal.NewFromString(strings.ReplaceAll(cleaned, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q: %w", text, ErrInvalidAmount)
	}
	if v.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%q is too large: %w", text, ErrInvalidAmount)
	}
	return v, nil
}

// FormatMoney renders a money value with two decimal places.
func FormatMoney(v decimal.Decimal) string {
	return v.StringFixed(moneyPlaces)
}
