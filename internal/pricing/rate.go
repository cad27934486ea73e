package pricing

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrInvalidRateCommand = errors.New("invalid rate command")

// ExchangeRate is the process-wide yuan -> rouble multiplier. It is read on
// every calculation and written only by the administrative override.
type ExchangeRate struct {
	mu    sync.RWMutex
	value decimal.Decimal
}

func NewExchangeRate(v decimal.Decimal) (*ExchangeRate, error) {
	if !validRate(v) {
		return nil, fmt.Errorf("%s: %w", v, ErrInvalidRate)
	}
	return &ExchangeRate{value: v}, nil
}

func (r *ExchangeRate) Get() decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

func (r *ExchangeRate) Set(v decimal.Decimal) error {
	if !validRate(v) {
		return fmt.Errorf("%s: %w", v, ErrInvalidRate)
	}
	r.mu.Lock()
	r.value = v
	r.mu.Unlock()
	return nil
}

func validRate(v decimal.Decimal) bool {
	return v.IsPositive() && v.LessThan(MaxAmount)
}

// IsRateCommand reports whether text looks like "set yuan ...".
func IsRateCommand(text string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), "set yuan")
}

// ParseRateCommand extracts the rate from "set yuan <number>".
func ParseRateCommand(text string) (decimal.Decimal, error) {
	parts := strings.Fields(text)
	if len(parts) != 3 || !strings.EqualFold(parts[0], "set") || !strings.EqualFold(parts[1], "yuan") {
		return decimal.Zero, fmt.Errorf("%q: %w", text, ErrInvalidRateCommand)
	}

	v, err := ParseAmount(parts[2])
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidRateCommand, err)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidRateCommand, ErrInvalidRate)
	}
	return v, nil
}
