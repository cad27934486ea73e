package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"buyforyou-bot/internal/order"
	"buyforyou-bot/internal/pricing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleWelcome(ctx context.Context, chatID int64, tr order.Transition) {
	b.sendAsset(chatID, AssetStart, textWelcome, b.createMainMenuKeyboard())
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64, tr order.Transition) {
	msg := tgbotapi.NewMessage(chatID, textHelp)
	if tr.Draft.Step == order.StepIdle {
		msg.ReplyMarkup = b.createMainMenuKeyboard()
	}
	b.sendMessage(msg)
}

func (b *Bot) handleDefault(ctx context.Context, chatID int64, tr order.Transition) {
	msg := tgbotapi.NewMessage(chatID, "❌ "+textUnknown)
	msg.ReplyMarkup = b.createMainMenuKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleCalcPrice(ctx context.Context, chatID int64, tr order.Transition) {
	caption := fmt.Sprintf("Категория: %s\n%s", tr.Draft.CalcCategory, textCalcPrice)
	if tr.Rejected {
		b.sendError(chatID, textBadNumber)
		b.sendText(chatID, caption, b.createQuoteKeyboard())
		return
	}
	b.sendAsset(chatID, AssetPriceInput, caption, b.createQuoteKeyboard())
}

func (b *Bot) handleQuote(ctx context.Context, chatID int64, tr order.Transition) {
	if tr.Quote == nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatQuote(*tr.Quote)+"\n\n"+textDelivery)
	msg.ReplyMarkup = b.createQuoteKeyboard()
	b.sendMessage(msg)
}

func formatQuote(q pricing.Quote) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Категория: %s\n", q.Category)
	fmt.Fprintf(&sb, "Цена: %s ¥ × %s = %s ₽\n", pricing.FormatMoney(q.Amount), q.Rate, pricing.FormatMoney(q.Base))
	fmt.Fprintf(&sb, "Комиссия: %s ₽\n", pricing.FormatMoney(q.Fee))
	if !q.Delivery.IsZero() {
		fmt.Fprintf(&sb, "Доставка: %s ₽\n", pricing.FormatMoney(q.Delivery))
	}
	if !q.Commission.IsZero() {
		fmt.Fprintf(&sb, "Сервисный сбор: %s ₽\n", pricing.FormatMoney(q.Commission))
	}
	fmt.Fprintf(&sb, "💰 Итого: %s ₽", pricing.FormatMoney(q.Total))
	return sb.String()
}

func (b *Bot) handleDeferral(ctx context.Context, chatID int64, tr order.Transition) {
	msg := tgbotapi.NewMessage(chatID, textDeferral)
	msg.ReplyMarkup = b.createManagerKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleAskPhoto(ctx context.Context, chatID int64, tr order.Transition) {
	if tr.Rejected {
		b.sendError(chatID, textNeedPhoto)
	}
	msg := tgbotapi.NewMessage(chatID, textAskPhoto)
	msg.ReplyMarkup = b.createRestartKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleAskSize(ctx context.Context, chatID int64, tr order.Transition) {
	b.sendAsset(chatID, AssetSizeGuide, textAskSize, b.createSizeKeyboard())
}

func (b *Bot) handleAskCategory(ctx context.Context, chatID int64, tr order.Transition) {
	text := textAskCategory
	if tr.Rejected {
		text = "❌ " + textNeedCat
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = b.createCategoryKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleAskPrice(ctx context.Context, chatID int64, tr order.Transition) {
	if tr.Rejected {
		b.sendError(chatID, textBadNumber)
		b.sendText(chatID, textCalcPrice, b.createRestartKeyboard())
		return
	}
	if tr.Deferred {
		b.sendMessage(tgbotapi.NewMessage(chatID, textOrderNote))
	}
	b.sendAsset(chatID, AssetPriceInput, textCalcPrice, b.createRestartKeyboard())
}

func (b *Bot) handleAskContact(ctx context.Context, chatID int64, tr order.Transition) {
	text := textAskContact
	if tr.Rejected {
		text = "❌ " + textNeedContact
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = b.createContactRequestKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handlePreview(ctx context.Context, chatID int64, tr order.Transition) {
	if tr.Rejected {
		b.sendError(chatID, textUseButtons)
	}
	if tr.Deferred {
		b.sendMessage(tgbotapi.NewMessage(chatID, textOrderNote))
	}

	rep := b.summarizer.Summarize(tr.Draft, order.AudienceUser, order.Meta{})
	b.sendReport(chatID, rep, b.createConfirmKeyboard(tr.Draft))
}

func (b *Bot) handleSubmitted(chatID int64, ref string) {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(textSubmitted, order.ShortReference(ref)))
	msg.ReplyMarkup = b.createMainMenuKeyboard()
	b.sendMessage(msg)
}

// sendAsset sends a prompt image from the assets directory with text as its
// caption. A missing file or a failed upload degrades to a text message.
func (b *Bot) sendAsset(chatID int64, name, text string, markup interface{}) {
	path := filepath.Join(b.cfg.AssetsDir, name)

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			b.logger.Warn("Failed to stat asset", zap.String("path", path), zap.Error(err))
		}
		b.sendText(chatID, text, markup)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = text
	photo.ReplyMarkup = markup
	if _, err := b.sender.Send(photo); err != nil {
		b.logger.Warn("Failed to send asset, falling back to text",
			zap.Int64("chat_id", chatID),
			zap.String("asset", name),
			zap.Error(err))
		b.sendText(chatID, text, markup)
	}
}

func (b *Bot) sendText(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	b.sendMessage(msg)
}
