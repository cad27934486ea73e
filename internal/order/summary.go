package order

import (
	"fmt"
	"strings"

	"buyforyou-bot/internal/pricing"

	"github.com/shopspring/decimal"
)

// Audience selects who a report is rendered for.
type Audience int

const (
	AudienceUser Audience = iota
	AudienceOperator
)

// Meta carries operator-only details of a submitted order.
type Meta struct {
	Reference string
	Username  string
	ChatID    int64
}

// Report is a rendered order: text plus the item photos in entry order.
type Report struct {
	Text   string
	Photos []string
	// Total sums the automatically priced items only.
	Total decimal.Decimal
	// Manual counts items left for a manager to price.
	Manual int
}

// Summarizer renders drafts for the user preview and the operator chat.
type Summarizer struct {
	table *pricing.Table
	rate  RateReader
}

func NewSummarizer(table *pricing.Table, rate RateReader) *Summarizer {
	return &Summarizer{table: table, rate: rate}
}

func (s *Summarizer) Summarize(d Draft, audience Audience, meta Meta) Report {
	rate := s.rate.Get()

	var (
		b   strings.Builder
		rep = Report{Total: decimal.Zero}
	)

	if audience == AudienceOperator {
		fmt.Fprintf(&b, "🛒 Новый заказ #%s\n", ShortReference(meta.Reference))
		if meta.Username != "" {
			fmt.Fprintf(&b, "Клиент: @%s (id %d)\n", meta.Username, meta.ChatID)
		} else {
			fmt.Fprintf(&b, "Клиент: id %d\n", meta.ChatID)
		}
		fmt.Fprintf(&b, "Контакт: %s\n", d.Contact)
	} else {
		b.WriteString("📝 Ваш заказ:\n")
	}
	fmt.Fprintf(&b, "Курс: %s ₽/¥\n", rate.String())

	for i, it := range d.Items {
		if it.PhotoRef != "" {
			rep.Photos = append(rep.Photos, it.PhotoRef)
		}

		fmt.Fprintf(&b, "\nТовар %d\n", i+1)
		fmt.Fprintf(&b, "Размер: %s\n", displaySize(it.Size))
		fmt.Fprintf(&b, "Категория: %s\n", it.Category)
		fmt.Fprintf(&b, "Цена: %s ¥\n", pricing.FormatMoney(it.Price))

		q, err := s.table.Calculate(it.Category, it.Price, rate)
		if err != nil {
			rep.Manual++
			b.WriteString("Стоимость: уточните у менеджера\n")
			continue
		}

		fmt.Fprintf(&b, "В рублях: %s ₽\n", pricing.FormatMoney(q.Base))
		fmt.Fprintf(&b, "Комиссия: %s ₽\n", pricing.FormatMoney(q.Fee))
		if !q.Delivery.IsZero() {
			fmt.Fprintf(&b, "Доставка: %s ₽\n", pricing.FormatMoney(q.Delivery))
		}
		if !q.Commission.IsZero() {
			fmt.Fprintf(&b, "Сервисный сбор: %s ₽\n", pricing.FormatMoney(q.Commission))
		}
		fmt.Fprintf(&b, "Итого: %s ₽\n", pricing.FormatMoney(q.Total))

		rep.Total = rep.Total.Add(q.Total)
	}

	fmt.Fprintf(&b, "\n💰 Итого по заказу: %s ₽", pricing.FormatMoney(rep.Total))
	if rep.Manual > 0 {
		fmt.Fprintf(&b, "\n(без учёта товаров, которые оценит менеджер: %d)", rep.Manual)
	}

	rep.Text = b.String()
	return rep
}

func displaySize(size string) string {
	if size == NoSize || size == "" {
		return LabelNoSize
	}
	return size
}
