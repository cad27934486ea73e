package bot

import (
	"context"
	"errors"
	"time"

	"buyforyou-bot/internal/order"
	"buyforyou-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// submitOrder forwards the finished draft to the operator chat and archives
// it. It returns the order reference shown to the user.
func (b *Bot) submitOrder(ctx context.Context, chatID int64, from author, d order.Draft) string {
	ref := order.NewReference()

	rep := b.summarizer.Summarize(d, order.AudienceOperator, order.Meta{
		Reference: ref,
		Username:  from.username,
		ChatID:    chatID,
	})

	b.logger.Info("Submitting order",
		zap.String("order_id", ref),
		zap.Int64("chat_id", chatID),
		zap.Int("items", len(d.Items)))

	b.sendReport(b.cfg.OperatorChatID, rep, nil)
	b.archiveOrder(ctx, ref, chatID, from, d, rep)

	return ref
}

// sendReport sends the item photos (grouped when there are several) followed
// by the report text. A failed photo delivery is replaced by a notice, the
// text is sent regardless.
func (b *Bot) sendReport(chatID int64, rep order.Report, markup interface{}) {
	for start := 0; start < len(rep.Photos); start += mediaGroupLimit {
		end := start + mediaGroupLimit
		if end > len(rep.Photos) {
			end = len(rep.Photos)
		}

		if err := b.sendPhotos(chatID, rep.Photos[start:end]); err != nil {
			b.logger.Error("Failed to send order photos",
				zap.Int64("chat_id", chatID),
				zap.Int("photos", len(rep.Photos)),
				zap.Error(err))
			b.sendMessage(tgbotapi.NewMessage(chatID, textPhotosLost))
			break
		}
	}

	msg := tgbotapi.NewMessage(chatID, rep.Text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	b.sendMessage(msg)
}

func (b *Bot) sendPhotos(chatID int64, refs []string) error {
	if len(refs) == 1 {
		_, err := b.sender.Send(tgbotapi.NewPhoto(chatID, tgbotapi.FileID(refs[0])))
		return err
	}

	media := make([]interface{}, 0, len(refs))
	for _, ref := range refs {
		media = append(media, tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(ref)))
	}
	_, err := b.sender.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, media))
	return err
}

func (b *Bot) archiveOrder(ctx context.Context, ref string, chatID int64, from author, d order.Draft, rep order.Report) {
	rate := b.rate.Get()

	rec := storage.OrderRecord{
		ID:          ref,
		ChatID:      chatID,
		Username:    from.username,
		Contact:     d.Contact,
		Rate:        rate,
		Total:       rep.Total,
		ManualItems: rep.Manual,
		Status:      storage.StatusNew,
		CreatedAt:   time.Now().UTC(),
		Items:       make([]storage.ItemRecord, 0, len(d.Items)),
	}

	for _, it := range d.Items {
		item := storage.ItemRecord{
			Category:    string(it.Category),
			Size:        it.Size,
			PriceCNY:    it.Price,
			PhotoFileID: it.PhotoRef,
		}
		if q, err := b.table.Calculate(it.Category, it.Price, rate); err == nil {
			item.TotalRUB = decimal.NewNullDecimal(q.Total)
		}
		rec.Items = append(rec.Items, item)
	}

	err := b.archive.SaveOrder(ctx, rec)
	switch {
	case err == nil:
		b.logger.Info("Order archived", zap.String("order_id", ref))
	case errors.Is(err, storage.ErrArchiveDisabled):
		b.logger.Debug("Order archive disabled, skipping", zap.String("order_id", ref))
	default:
		b.logger.Error("Failed to archive order",
			zap.String("order_id", ref),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
