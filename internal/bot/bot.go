package bot

import (
	"context"

	"buyforyou-bot/internal/config"
	"buyforyou-bot/internal/order"
	"buyforyou-bot/internal/pricing"
	"buyforyou-bot/internal/session"
	"buyforyou-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Deps are the collaborators of the bot. RateStore and Flood may be nil.
type Deps struct {
	Table     *pricing.Table
	Rate      *pricing.ExchangeRate
	Sessions  *session.Store
	Archive   storage.Archive
	RateStore RateStore
	Flood     FloodGuard
}

type Bot struct {
	api    API
	sender Sender
	logger *zap.Logger
	cfg    *config.Config

	table      *pricing.Table
	rate       *pricing.ExchangeRate
	sessions   *session.Store
	classifier *order.Classifier
	sequencer  *order.Sequencer
	summarizer *order.Summarizer
	archive    storage.Archive
	rateStore  RateStore
	flood      FloodGuard

	prompts map[order.Prompt]func(context.Context, int64, order.Transition)
}

func New(api API, cfg *config.Config, deps Deps, logger *zap.Logger) *Bot {
	archive := deps.Archive
	if archive == nil {
		archive = storage.DisabledArchive{}
	}

	b := &Bot{
		api:        api,
		sender:     NewThrottledSender(api, cfg.SendRatePerSec, cfg.SendBurst),
		logger:     logger,
		cfg:        cfg,
		table:      deps.Table,
		rate:       deps.Rate,
		sessions:   deps.Sessions,
		classifier: order.NewClassifier(deps.Table),
		sequencer:  order.NewSequencer(deps.Table, deps.Rate),
		summarizer: order.NewSummarizer(deps.Table, deps.Rate),
		archive:    archive,
		rateStore:  deps.RateStore,
		flood:      deps.Flood,
	}

	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	b.prompts = map[order.Prompt]func(context.Context, int64, order.Transition){
		order.PromptWelcome:   b.handleWelcome,
		order.PromptHelp:      b.handleHelp,
		order.PromptHint:      b.handleDefault,
		order.PromptCalcPrice: b.handleCalcPrice,
		order.PromptQuote:     b.handleQuote,
		order.PromptDeferral:  b.handleDeferral,
		order.PromptPhoto:     b.handleAskPhoto,
		order.PromptSize:      b.handleAskSize,
		order.PromptCategory:  b.handleAskCategory,
		order.PromptPrice:     b.handleAskPrice,
		order.PromptContact:   b.handleAskContact,
		order.PromptPreview:   b.handlePreview,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			return nil

		case update, ok := <-updates:
			if !ok {
				b.logger.Info("Updates channel closed")
				return nil
			}
			if update.Message != nil {
				b.processMessage(ctx, update.Message)
			} else if update.CallbackQuery != nil {
				b.processCallback(ctx, update.CallbackQuery)
			}
		}
	}
}

type author struct {
	userID   int64
	username string
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	from := author{userID: chatID}
	if msg.From != nil {
		from = author{userID: msg.From.ID, username: msg.From.UserName}
	}

	if b.isFlooding(ctx, from.userID) {
		return
	}

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	intent := b.classifier.Classify(inputFromMessage(msg))
	if !allowedInChat(msg.Chat, intent.Kind) {
		b.logger.Debug("Ignoring group message",
			zap.Int64("chat_id", chatID),
			zap.Stringer("intent", intent.Kind))
		return
	}
	b.dispatch(ctx, chatID, from, intent)
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := b.sender.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback", zap.String("callback_id", callback.ID), zap.Error(err))
	}

	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	from := author{userID: chatID}
	if callback.From != nil {
		from = author{userID: callback.From.ID, username: callback.From.UserName}
	}

	intent := b.classifier.Classify(order.Input{Callback: callback.Data})
	if !allowedInChat(callback.Message.Chat, intent.Kind) {
		return
	}
	if intent.Kind == order.IntentUnknown {
		b.sendMessage(tgbotapi.NewMessage(chatID, textStaleButton))
		return
	}
	b.dispatch(ctx, chatID, from, intent)
}

// allowedInChat keeps order dialogs to private chats. Groups, such as the
// operator chat, only get the administrative commands.
func allowedInChat(chat *tgbotapi.Chat, kind order.IntentKind) bool {
	if chat == nil || chat.IsPrivate() {
		return true
	}
	switch kind {
	case order.IntentSetRate, order.IntentShowRate, order.IntentStats, order.IntentExport:
		return true
	}
	return false
}

func inputFromMessage(msg *tgbotapi.Message) order.Input {
	in := order.Input{Text: msg.Text}

	switch {
	case msg.IsCommand():
		in.Command = msg.Command()
	case len(msg.Photo) > 0:
		// the last size is the largest one
		in.PhotoRef = msg.Photo[len(msg.Photo)-1].FileID
		in.Text = msg.Caption
	case msg.Contact != nil:
		in.Text = FormatPhoneNumber(NormalizePhoneNumber(msg.Contact.PhoneNumber))
	}
	return in
}

// dispatch routes administrative intents directly and feeds everything else
// through the sequencer.
func (b *Bot) dispatch(ctx context.Context, chatID int64, from author, intent order.Intent) {
	switch intent.Kind {
	case order.IntentSetRate:
		b.handleSetRate(ctx, chatID, from.userID, intent.Text)
		return
	case order.IntentShowRate:
		b.handleShowRate(chatID)
		return
	case order.IntentStats:
		b.handleOrderStats(ctx, chatID, from.userID)
		return
	case order.IntentExport:
		b.handleExportOrders(ctx, chatID, from.userID)
		return
	}

	var tr order.Transition
	b.sessions.Update(chatID, func(d order.Draft) order.Draft {
		if d.Step == order.StepContact && intent.Kind == order.IntentText {
			intent.Text = normalizeContact(intent.Text)
		}
		tr = b.sequencer.Next(d, intent)
		return tr.Draft
	})

	if tr.Rejected {
		b.logger.Debug("Input rejected",
			zap.Int64("chat_id", chatID),
			zap.Stringer("intent", intent.Kind),
			zap.String("step", string(tr.Draft.Step)))
	}

	if tr.Submitted != nil {
		ref := b.submitOrder(ctx, chatID, from, *tr.Submitted)
		b.handleSubmitted(chatID, ref)
		return
	}

	if handler, exists := b.prompts[tr.Prompt]; exists {
		handler(ctx, chatID, tr)
	} else {
		b.handleDefault(ctx, chatID, tr)
	}
}

func (b *Bot) isFlooding(ctx context.Context, userID int64) bool {
	if b.flood == nil || b.cfg.FloodLimit == 0 {
		return false
	}

	exceeded, err := b.flood.CheckRateLimit(ctx, userID, floodAction, b.cfg.FloodLimit, b.cfg.FloodWindow)
	if err != nil {
		b.logger.Warn("Flood check failed", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	if exceeded {
		b.logger.Debug("Dropping message over flood limit", zap.Int64("user_id", userID))
	}
	return exceeded
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "❌ "+text)
	b.sendMessage(msg)
}
