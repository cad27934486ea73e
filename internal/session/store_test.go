package session

import (
	"sync"
	"testing"

	"buyforyou-bot/internal/order"
	"buyforyou-bot/internal/pricing"

	"github.com/shopspring/decimal"
)

func TestStore_GetMissingReturnsIdle(t *testing.T) {
	s := NewStore()

	d := s.Get(7)
	if d.Step != order.StepIdle || len(d.Items) != 0 {
		t.Errorf("unexpected draft for unknown chat: %+v", d)
	}
}

func TestStore_SaveIsolatesCallers(t *testing.T) {
	s := NewStore()

	d := order.Draft{Step: order.StepConfirm, Items: []order.Item{{Size: "42", Price: decimal.NewFromInt(1)}}}
	s.Save(1, d)

	// mutating the caller's copy must not leak into the store
	d.Items[0].Size = "43"
	if got := s.Get(1).Items[0].Size; got != "42" {
		t.Errorf("stored size = %q, want 42", got)
	}

	got := s.Get(1)
	got.Items[0].Size = "44"
	if again := s.Get(1).Items[0].Size; again != "42" {
		t.Errorf("stored size = %q after mutating a Get result", again)
	}
}

func TestStore_ChatsAreIndependent(t *testing.T) {
	s := NewStore()

	s.Update(1, func(d order.Draft) order.Draft {
		d.Step = order.StepCalcPrice
		d.CalcCategory = pricing.CategoryShoes
		return d
	})
	s.Update(2, func(d order.Draft) order.Draft {
		d.Step = order.StepCalcPrice
		d.CalcCategory = pricing.CategoryBags
		return d
	})

	if c := s.Get(1).CalcCategory; c != pricing.CategoryShoes {
		t.Errorf("chat 1 category = %q", c)
	}
	if c := s.Get(2).CalcCategory; c != pricing.CategoryBags {
		t.Errorf("chat 2 category = %q", c)
	}
}

func TestStore_ClearAndIdleDrop(t *testing.T) {
	s := NewStore()

	s.Save(1, order.Draft{Step: order.StepPhoto})
	s.Clear(1)
	if s.Len() != 0 {
		t.Errorf("Len = %d after Clear", s.Len())
	}

	s.Save(2, order.Draft{Step: order.StepPhoto})
	s.Update(2, func(order.Draft) order.Draft { return order.NewDraft() })
	if s.Len() != 0 {
		t.Errorf("idle empty draft kept, Len = %d", s.Len())
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := NewStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(1, func(d order.Draft) order.Draft {
				d.Step = order.StepConfirm
				d.Items = append(d.Items, order.Item{Size: "x"})
				return d
			})
		}()
	}
	wg.Wait()

	if got := len(s.Get(1).Items); got != n {
		t.Errorf("items = %d, want %d", got, n)
	}
}
