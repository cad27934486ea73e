package order

import (
	"strconv"
	"strings"

	"buyforyou-bot/internal/pricing"
)

// IntentKind tags what an incoming update means, independent of dialog state.
type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentStart
	IntentHelp
	IntentRestart
	IntentStartOrder
	IntentPhoto
	IntentCategory
	IntentText
	IntentSubmit
	IntentAddItem
	IntentEdit
	IntentSetRate
	IntentShowRate
	IntentStats
	IntentExport
)

func (k IntentKind) String() string {
	switch k {
	case IntentStart:
		return "start"
	case IntentHelp:
		return "help"
	case IntentRestart:
		return "restart"
	case IntentStartOrder:
		return "start_order"
	case IntentPhoto:
		return "photo"
	case IntentCategory:
		return "category"
	case IntentText:
		return "text"
	case IntentSubmit:
		return "submit"
	case IntentAddItem:
		return "add_item"
	case IntentEdit:
		return "edit"
	case IntentSetRate:
		return "set_rate"
	case IntentShowRate:
		return "show_rate"
	case IntentStats:
		return "stats"
	case IntentExport:
		return "export"
	default:
		return "unknown"
	}
}

// Intent is the classified meaning of one update. Only the fields relevant to
// Kind are populated.
type Intent struct {
	Kind     IntentKind
	Text     string
	PhotoRef string
	Category pricing.Category
	Edit     EditTarget
}

// Input is the transport-neutral content of one update.
type Input struct {
	Text     string
	Command  string // without the leading slash
	PhotoRef string
	Callback string
}

// Classifier turns raw input into intents.
type Classifier struct {
	table *pricing.Table
}

func NewClassifier(table *pricing.Table) *Classifier {
	return &Classifier{table: table}
}

func (c *Classifier) Classify(in Input) Intent {
	if in.Callback != "" {
		return c.classifyCallback(in.Callback)
	}

	if in.PhotoRef != "" {
		return Intent{Kind: IntentPhoto, PhotoRef: in.PhotoRef, Text: in.Text}
	}

	if in.Command != "" {
		switch strings.ToLower(in.Command) {
		case "start":
			return Intent{Kind: IntentStart}
		case "help":
			return Intent{Kind: IntentHelp}
		case "cancel", "restart":
			return Intent{Kind: IntentRestart}
		case "order":
			return Intent{Kind: IntentStartOrder}
		case "rate":
			return Intent{Kind: IntentShowRate}
		case "stats":
			return Intent{Kind: IntentStats}
		case "export":
			return Intent{Kind: IntentExport}
		}
		return Intent{Kind: IntentUnknown, Text: in.Text}
	}

	text := strings.TrimSpace(in.Text)
	switch text {
	case "":
		return Intent{Kind: IntentUnknown}
	case LabelStartOrder:
		return Intent{Kind: IntentStartOrder, Text: text}
	case LabelRestart:
		return Intent{Kind: IntentRestart, Text: text}
	case LabelHelp:
		return Intent{Kind: IntentHelp, Text: text}
	}

	if pricing.IsRateCommand(text) {
		return Intent{Kind: IntentSetRate, Text: text}
	}

	if cat, ok := c.table.Lookup(text); ok {
		return Intent{Kind: IntentCategory, Category: cat, Text: text}
	}

	return Intent{Kind: IntentText, Text: text}
}

func (c *Classifier) classifyCallback(data string) Intent {
	switch data {
	case CallbackSubmit:
		return Intent{Kind: IntentSubmit}
	case CallbackAddItem:
		return Intent{Kind: IntentAddItem}
	case CallbackRestart:
		return Intent{Kind: IntentRestart}
	}

	if target, ok := ParseEditCallback(data); ok {
		return Intent{Kind: IntentEdit, Edit: target}
	}
	return Intent{Kind: IntentUnknown}
}

// EditCallback encodes an edit button payload, e.g. "edit:size:0".
func EditCallback(field Field, index int) string {
	return callbackEditPrefix + string(field) + ":" + strconv.Itoa(index)
}

func ParseEditCallback(data string) (EditTarget, bool) {
	rest, ok := strings.CutPrefix(data, callbackEditPrefix)
	if !ok {
		return EditTarget{}, false
	}

	parts := strings.Split(rest, ":")
	if len(parts) != 2 {
		return EditTarget{}, false
	}

	field := Field(parts[0])
	if _, known := fieldSteps[field]; !known {
		return EditTarget{}, false
	}

	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return EditTarget{}, false
	}
	return EditTarget{Field: field, Index: idx}, true
}
