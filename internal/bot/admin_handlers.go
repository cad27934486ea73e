package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buyforyou-bot/internal/order"
	"buyforyou-bot/internal/pricing"
	"buyforyou-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleSetRate applies "set yuan <n>". Only configured admins may change the
// rate; a malformed command leaves it unchanged.
func (b *Bot) handleSetRate(ctx context.Context, chatID, userID int64, text string) {
	if !b.cfg.IsAdmin(userID) {
		b.logger.Warn("Rate change refused",
			zap.Int64("user_id", userID),
			zap.String("text", text))
		b.sendError(chatID, textNoRights)
		return
	}

	v, err := pricing.ParseRateCommand(text)
	if err != nil {
		b.sendError(chatID, textRateFormat)
		return
	}

	old := b.rate.Get()
	if err := b.rate.Set(v); err != nil {
		b.sendError(chatID, textRateFormat)
		return
	}

	b.logger.Info("Exchange rate changed",
		zap.Int64("user_id", userID),
		zap.String("old", old.String()),
		zap.String("new", v.String()))

	if b.rateStore != nil {
		if err := b.rateStore.SaveRate(ctx, v); err != nil {
			b.logger.Error("Failed to persist exchange rate", zap.Error(err))
		}
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(textRateSet, v.String())))
}

func (b *Bot) handleShowRate(chatID int64) {
	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(textRateCurrent, b.rate.Get().String())))
}

// handleOrderStats shows statistics about archived orders
func (b *Bot) handleOrderStats(ctx context.Context, chatID, userID int64) {
	if !b.cfg.IsAdmin(userID) {
		b.handleDefault(ctx, chatID, order.Transition{})
		return
	}

	stats, err := b.archive.GetOrderStatistics(ctx)
	if err != nil {
		b.reportArchiveError(chatID, "Failed to get order statistics", err)
		return
	}

	msgText := fmt.Sprintf(
		"📊 Статистика заказов\n\n"+
			"📌 Всего заказов: %d\n"+
			"💰 Общая сумма: %s ₽\n"+
			"📅 За сегодня: %d (%s ₽)\n"+
			"📅 За неделю: %d (%s ₽)\n"+
			"📅 За месяц: %d (%s ₽)\n\n"+
			"🆕 Новые: %d",
		stats.TotalOrders,
		pricing.FormatMoney(stats.TotalRevenue),
		stats.TodayOrders, pricing.FormatMoney(stats.TodayRevenue),
		stats.WeekOrders, pricing.FormatMoney(stats.WeekRevenue),
		stats.MonthOrders, pricing.FormatMoney(stats.MonthRevenue),
		stats.StatusCounts[storage.StatusNew],
	)

	b.sendMessage(tgbotapi.NewMessage(chatID, msgText))
}

func (b *Bot) handleExportOrders(ctx context.Context, chatID, userID int64) {
	if !b.cfg.IsAdmin(userID) {
		b.handleDefault(ctx, chatID, order.Transition{})
		return
	}

	orders, err := b.archive.ListOrders(ctx, exportLimit)
	if err != nil {
		b.reportArchiveError(chatID, "Failed to list orders", err)
		return
	}

	buf, err := storage.ExportOrdersToExcel(orders)
	if err != nil {
		b.logger.Error("Failed to export orders", zap.Error(err))
		b.sendError(chatID, "Не удалось сформировать отчёт")
		return
	}

	filename := fmt.Sprintf("orders_report_%s.xlsx", time.Now().Format("20060102"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("📊 Выгрузка заказов: %d", len(orders))

	if _, err := b.sender.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "Не удалось отправить файл")
	}
}

func (b *Bot) reportArchiveError(chatID int64, logMsg string, err error) {
	switch {
	case errors.Is(err, storage.ErrArchiveDisabled):
		b.sendError(chatID, textArchiveOff)
	case errors.Is(err, storage.ErrArchiveOffline):
		b.logger.Warn(logMsg, zap.Error(err))
		b.sendError(chatID, textArchiveDown)
	default:
		b.logger.Error(logMsg, zap.Error(err))
		b.sendError(chatID, textArchiveDown)
	}
}
