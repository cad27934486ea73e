package order

// Reply keyboard labels. The classifier matches incoming text against these.
const (
	LabelStartOrder = "Оформить заказ!🔥"
	LabelRestart    = "Вернуться в начало"
	LabelNoSize     = "Без размера"
	LabelHelp       = "ℹ️ Помощь"
)

// Inline callback payloads.
const (
	CallbackSubmit  = "order:submit"
	CallbackAddItem = "order:add"
	CallbackRestart = "order:restart"

	callbackEditPrefix = "edit:"
)

// NoSize is the stored sentinel for an item without a size.
const NoSize = "0"
