package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is one of the fixed product classes shown in the main menu.
type Category string

const (
	CategoryShoes   Category = "Обувь/Куртки"
	CategoryJeans   Category = "Джинсы/Кофты"
	CategoryPants   Category = "Штаны/Юбки/Платья"
	CategoryTShirts Category = "Футболки/Аксессуары"
	CategoryWatches Category = "Часы/Украшения"
	CategoryBags    Category = "Сумки/Рюкзаки"
	CategoryOther   Category = "Техника/Другое"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrManualQuote     = errors.New("category is priced by a manager")
)

// Tariff holds the surcharges of a single category.
type Tariff struct {
	Fee            decimal.Decimal
	Delivery       decimal.Decimal
	CommissionRate decimal.Decimal
	// Manual categories are never priced automatically.
	Manual bool
}

// Entry is a category together with its tariff, in menu order.
type Entry struct {
	Category Category
	Tariff   Tariff
}

// Table is the static category -> tariff mapping. It is immutable once built.
type Table struct {
	order   []Category
	tariffs map[Category]Tariff
}

func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, errors.New("pricing table is empty")
	}

	t := &Table{
		order:   make([]Category, 0, len(entries)),
		tariffs: make(map[Category]Tariff, len(entries)),
	}
	for _, e := range entries {
		if strings.TrimSpace(string(e.Category)) == "" {
			return nil, errors.New("category name is empty")
		}
		if _, dup := t.tariffs[e.Category]; dup {
			return nil, fmt.Errorf("duplicate category %q", e.Category)
		}
		if e.Tariff.Fee.IsNegative() || e.Tariff.Delivery.IsNegative() || e.Tariff.CommissionRate.IsNegative() {
			return nil, fmt.Errorf("negative tariff for category %q", e.Category)
		}
		if e.Tariff.Fee.GreaterThanOrEqual(MaxAmount) || e.Tariff.Delivery.GreaterThanOrEqual(MaxAmount) ||
			e.Tariff.CommissionRate.GreaterThanOrEqual(MaxAmount) {
			return nil, fmt.Errorf("tariff for category %q is too large", e.Category)
		}
		t.order = append(t.order, e.Category)
		t.tariffs[e.Category] = e.Tariff
	}
	return t, nil
}

// DefaultEntries is the tariff table the service launched with.
func DefaultEntries() []Entry {
	fee := func(v int64) Tariff { return Tariff{Fee: decimal.NewFromInt(v)} }
	return []Entry{
		{Category: CategoryShoes, Tariff: fee(1000)},
		{Category: CategoryJeans, Tariff: fee(800)},
		{Category: CategoryPants, Tariff: fee(800)},
		{Category: CategoryTShirts, Tariff: fee(600)},
		{Category: CategoryWatches, Tariff: fee(600)},
		{Category: CategoryBags, Tariff: fee(1000)},
		{Category: CategoryOther, Tariff: Tariff{Manual: true}},
	}
}

// BuildTable starts from DefaultEntries and applies configured overrides.
// fees maps a category name to a fixed fee; delivery and commission apply to
// every automatically priced category.
func BuildTable(fees map[string]string, delivery, commission decimal.Decimal) (*Table, error) {
	entries := DefaultEntries()

	known := make(map[Category]int, len(entries))
	for i, e := range entries {
		known[e.Category] = i
	}

	for name, raw := range fees {
		idx, ok := known[Category(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("fee override for %q: %w", name, ErrUnknownCategory)
		}
		if entries[idx].Tariff.Manual {
			return nil, fmt.Errorf("fee override for %q: %w", name, ErrManualQuote)
		}
		v, err := ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("fee override for %q: %w", name, err)
		}
		entries[idx].Tariff.Fee = v
	}

	for i := range entries {
		if entries[i].Tariff.Manual {
			continue
		}
		entries[i].Tariff.Delivery = delivery
		entries[i].Tariff.CommissionRate = commission
	}

	return NewTable(entries)
}

// Categories returns the categories in menu order.
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.order))
	copy(out, t.order)
	return out
}

// Lookup matches text exactly against a category name.
func (t *Table) Lookup(text string) (Category, bool) {
	c := Category(text)
	_, ok := t.tariffs[c]
	return c, ok
}

func (t *Table) Tariff(c Category) (Tariff, bool) {
	tariff, ok := t.tariffs[c]
	return tariff, ok
}

// IsManual reports whether c is the catch-all category priced by a human.
func (t *Table) IsManual(c Category) bool {
	tariff, ok := t.tariffs[c]
	return ok && tariff.Manual
}
