package bot

import (
	"buyforyou-bot/internal/order"
	"buyforyou-bot/internal/pricing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BOT KEYBOARDS

const labelShareContact = "📱 Отправить контакт"

func categoryRows(categories []pricing.Category) [][]tgbotapi.KeyboardButton {
	rows := make([][]tgbotapi.KeyboardButton, 0, (len(categories)+1)/2)
	for i := 0; i < len(categories); i += 2 {
		row := tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(string(categories[i])))
		if i+1 < len(categories) {
			row = append(row, tgbotapi.NewKeyboardButton(string(categories[i+1])))
		}
		rows = append(rows, row)
	}
	return rows
}

func (b *Bot) createMainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := categoryRows(b.table.Categories())
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(order.LabelStartOrder),
		tgbotapi.NewKeyboardButton(order.LabelHelp),
	))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Bot) createQuoteKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(order.LabelStartOrder),
			tgbotapi.NewKeyboardButton(order.LabelRestart),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Bot) createRestartKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(order.LabelRestart)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Bot) createSizeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(order.LabelNoSize)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(order.LabelRestart)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Bot) createCategoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := categoryRows(b.table.Categories())
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(order.LabelRestart)))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Bot) createContactRequestKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(labelShareContact)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(order.LabelRestart)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func (b *Bot) createManagerKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Написать менеджеру", b.cfg.ManagerURL),
		),
	)
}

// createConfirmKeyboard offers submit / add / restart and edit buttons for the
// most recently added item.
func (b *Bot) createConfirmKeyboard(d order.Draft) tgbotapi.InlineKeyboardMarkup {
	last := len(d.Items) - 1
	if last < 0 {
		last = 0
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Отправить заказ", order.CallbackSubmit),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Добавить товар", order.CallbackAddItem),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📸 Фото", order.EditCallback(order.FieldPhoto, last)),
			tgbotapi.NewInlineKeyboardButtonData("📏 Размер", order.EditCallback(order.FieldSize, last)),
			tgbotapi.NewInlineKeyboardButtonData("🗂 Категория", order.EditCallback(order.FieldCategory, last)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💴 Цена", order.EditCallback(order.FieldPrice, last)),
			tgbotapi.NewInlineKeyboardButtonData("📱 Контакт", order.EditCallback(order.FieldContact, last)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Начать заново", order.CallbackRestart),
		),
	)
}
