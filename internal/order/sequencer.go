package order

import (
	"errors"
	"strings"

	"buyforyou-bot/internal/pricing"

	"github.com/shopspring/decimal"
)

// Prompt tells the transport layer what to show after a transition.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptWelcome
	PromptHelp
	PromptHint
	PromptCalcPrice
	PromptQuote
	PromptDeferral
	PromptPhoto
	PromptSize
	PromptCategory
	PromptPrice
	PromptContact
	PromptPreview
	PromptSubmitted
)

var stepPrompts = map[Step]Prompt{
	StepIdle:      PromptHint,
	StepCalcPrice: PromptCalcPrice,
	StepPhoto:     PromptPhoto,
	StepSize:      PromptSize,
	StepCategory:  PromptCategory,
	StepPrice:     PromptPrice,
	StepContact:   PromptContact,
	StepConfirm:   PromptPreview,
}

// RateReader provides the current exchange rate.
type RateReader interface {
	Get() decimal.Decimal
}

// Transition is the outcome of feeding one intent to the sequencer.
type Transition struct {
	Draft  Draft
	Prompt Prompt
	// Rejected is set when the input did not fit the current step. Draft is
	// then equal to the input draft.
	Rejected bool
	// Submitted holds the finished order when the user confirmed it.
	Submitted *Draft
	// Quote is set after a successful calculator request.
	Quote *pricing.Quote
	// Deferred is set when the chosen category is priced by a manager.
	Deferred bool
}

// Sequencer is the transition table of the dialog. It is stateless; the
// caller owns the draft.
type Sequencer struct {
	table *pricing.Table
	rate  RateReader
}

func NewSequencer(table *pricing.Table, rate RateReader) *Sequencer {
	return &Sequencer{table: table, rate: rate}
}

func (s *Sequencer) Next(d Draft, in Intent) Transition {
	switch in.Kind {
	case IntentStart, IntentRestart:
		return Transition{Draft: NewDraft(), Prompt: PromptWelcome}
	case IntentHelp:
		return Transition{Draft: d, Prompt: PromptHelp}
	case IntentStartOrder:
		return Transition{Draft: Draft{Step: StepPhoto}, Prompt: PromptPhoto}
	}

	switch d.Step {
	case StepIdle:
		return s.idle(d, in)
	case StepCalcPrice:
		return s.calcPrice(d, in)
	case StepPhoto:
		return s.photo(d, in)
	case StepSize:
		return s.size(d, in)
	case StepCategory:
		return s.category(d, in)
	case StepPrice:
		return s.price(d, in)
	case StepContact:
		return s.contact(d, in)
	case StepConfirm:
		return s.confirm(d, in)
	}

	// unknown step, e.g. a draft saved by an older build
	return Transition{Draft: NewDraft(), Prompt: PromptWelcome}
}

func reject(d Draft) Transition {
	return Transition{Draft: d, Prompt: stepPrompts[d.Step], Rejected: true}
}

func (s *Sequencer) idle(d Draft, in Intent) Transition {
	if in.Kind != IntentCategory {
		return reject(d)
	}
	return s.pickCalcCategory(d, in.Category)
}

func (s *Sequencer) pickCalcCategory(d Draft, c pricing.Category) Transition {
	next := d.Clone()
	if s.table.IsManual(c) {
		next.Step = StepIdle
		next.CalcCategory = ""
		return Transition{Draft: next, Prompt: PromptDeferral, Deferred: true}
	}
	next.Step = StepCalcPrice
	next.CalcCategory = c
	return Transition{Draft: next, Prompt: PromptCalcPrice}
}

func (s *Sequencer) calcPrice(d Draft, in Intent) Transition {
	switch in.Kind {
	case IntentCategory:
		return s.pickCalcCategory(d, in.Category)
	case IntentText:
	default:
		return reject(d)
	}

	amount, err := pricing.ParseAmount(in.Text)
	if err != nil {
		return reject(d)
	}

	q, err := s.table.Calculate(d.CalcCategory, amount, s.rate.Get())
	if errors.Is(err, pricing.ErrManualQuote) {
		next := d.Clone()
		next.Step = StepIdle
		next.CalcCategory = ""
		return Transition{Draft: next, Prompt: PromptDeferral, Deferred: true}
	}
	if err != nil {
		return reject(d)
	}

	// stay on the same category so the user can price the next item
	return Transition{Draft: d, Prompt: PromptQuote, Quote: &q}
}

func (s *Sequencer) photo(d Draft, in Intent) Transition {
	if in.Kind != IntentPhoto || in.PhotoRef == "" {
		return reject(d)
	}

	next := d.Clone()
	if next.Editing != nil {
		return s.applyEdit(next, func(it *Item) { it.PhotoRef = in.PhotoRef }, false)
	}
	next.Pending.PhotoRef = in.PhotoRef
	next.Step = StepSize
	return Transition{Draft: next, Prompt: PromptSize}
}

func (s *Sequencer) size(d Draft, in Intent) Transition {
	if in.Kind != IntentText && in.Kind != IntentCategory {
		return reject(d)
	}

	value := strings.TrimSpace(in.Text)
	if value == "" {
		return reject(d)
	}
	if value == LabelNoSize {
		value = NoSize
	}

	next := d.Clone()
	if next.Editing != nil {
		return s.applyEdit(next, func(it *Item) { it.Size = value }, false)
	}
	next.Pending.Size = value
	next.Step = StepCategory
	return Transition{Draft: next, Prompt: PromptCategory}
}

func (s *Sequencer) category(d Draft, in Intent) Transition {
	if in.Kind != IntentCategory {
		return reject(d)
	}

	deferred := s.table.IsManual(in.Category)
	next := d.Clone()
	if next.Editing != nil {
		return s.applyEdit(next, func(it *Item) { it.Category = in.Category }, deferred)
	}
	next.Pending.Category = in.Category
	next.Step = StepPrice
	return Transition{Draft: next, Prompt: PromptPrice, Deferred: deferred}
}

func (s *Sequencer) price(d Draft, in Intent) Transition {
	if in.Kind != IntentText {
		return reject(d)
	}

	amount, err := pricing.ParseAmount(in.Text)
	if err != nil {
		return reject(d)
	}

	next := d.Clone()
	if next.Editing != nil {
		return s.applyEdit(next, func(it *Item) { it.Price = amount }, false)
	}

	next.Pending.Price = amount
	next.Items = append(next.Items, next.Pending)
	next.Pending = Item{}

	if next.Contact == "" {
		next.Step = StepContact
		return Transition{Draft: next, Prompt: PromptContact}
	}
	next.Step = StepConfirm
	return Transition{Draft: next, Prompt: PromptPreview}
}

func (s *Sequencer) contact(d Draft, in Intent) Transition {
	if in.Kind != IntentText && in.Kind != IntentCategory {
		return reject(d)
	}

	value := strings.TrimSpace(in.Text)
	if value == "" {
		return reject(d)
	}

	next := d.Clone()
	next.Contact = value
	next.Editing = nil
	next.Step = StepConfirm
	return Transition{Draft: next, Prompt: PromptPreview}
}

func (s *Sequencer) confirm(d Draft, in Intent) Transition {
	switch in.Kind {
	case IntentSubmit:
		if len(d.Items) == 0 {
			return reject(d)
		}
		done := d.Clone()
		return Transition{Draft: NewDraft(), Prompt: PromptSubmitted, Submitted: &done}

	case IntentAddItem:
		next := d.Clone()
		next.Pending = Item{}
		next.Editing = nil
		next.Step = StepPhoto
		return Transition{Draft: next, Prompt: PromptPhoto}

	case IntentEdit:
		step, ok := fieldSteps[in.Edit.Field]
		if !ok {
			return reject(d)
		}
		if in.Edit.Field != FieldContact && (in.Edit.Index < 0 || in.Edit.Index >= len(d.Items)) {
			return reject(d)
		}
		next := d.Clone()
		target := in.Edit
		next.Editing = &target
		next.Step = step
		return Transition{Draft: next, Prompt: stepPrompts[step]}
	}

	return reject(d)
}

// applyEdit writes one field of the item under edit and returns to the
// confirmation step.
func (s *Sequencer) applyEdit(next Draft, set func(*Item), deferred bool) Transition {
	idx := next.Editing.Index
	if idx < 0 || idx >= len(next.Items) {
		next.Editing = nil
		next.Step = StepConfirm
		return Transition{Draft: next, Prompt: PromptPreview}
	}

	set(&next.Items[idx])
	next.Editing = nil
	next.Step = StepConfirm
	return Transition{Draft: next, Prompt: PromptPreview, Deferred: deferred}
}
