package order

import (
	"buyforyou-bot/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Step is the position of a user in the dialog.
type Step string

const (
	StepIdle      Step = "idle"
	StepCalcPrice Step = "calc_price"

	StepPhoto    Step = "awaiting_photo"
	StepSize     Step = "awaiting_size"
	StepCategory Step = "awaiting_category"
	StepPrice    Step = "awaiting_price"
	StepContact  Step = "awaiting_contact"
	StepConfirm  Step = "confirming"
)

// Field names an editable part of an order.
type Field string

const (
	FieldPhoto    Field = "photo"
	FieldSize     Field = "size"
	FieldCategory Field = "category"
	FieldPrice    Field = "price"
	FieldContact  Field = "contact"
)

var fieldSteps = map[Field]Step{
	FieldPhoto:    StepPhoto,
	FieldSize:     StepSize,
	FieldCategory: StepCategory,
	FieldPrice:    StepPrice,
	FieldContact:  StepContact,
}

// Item is one completed product line of an order.
type Item struct {
	PhotoRef string
	Size     string
	Category pricing.Category
	Price    decimal.Decimal // yuan
}

// EditTarget points at the field being re-entered from the confirmation step.
type EditTarget struct {
	Field Field
	Index int
}

// Draft is an order in progress together with the dialog position.
type Draft struct {
	Items   []Item
	Contact string
	Step    Step

	// Pending collects the item currently walking photo -> price.
	Pending Item
	// Editing is set while a single field is re-entered from StepConfirm.
	Editing *EditTarget

	// CalcCategory is the category picked in the calculator flow.
	CalcCategory pricing.Category
}

// NewDraft returns an empty idle draft.
func NewDraft() Draft {
	return Draft{Step: StepIdle}
}

// Clone returns a deep copy so that callers never share item storage.
func (d Draft) Clone() Draft {
	out := d
	if d.Items != nil {
		out.Items = make([]Item, len(d.Items))
		copy(out.Items, d.Items)
	}
	if d.Editing != nil {
		e := *d.Editing
		out.Editing = &e
	}
	return out
}

// NewReference returns the identifier of a submitted order.
func NewReference() string {
	return uuid.NewString()
}

// ShortReference is the part of a reference shown in chat messages.
func ShortReference(ref string) string {
	if len(ref) > 8 {
		return ref[:8]
	}
	return ref
}
