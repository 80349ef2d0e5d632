package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"macrosig/internal/model"
)

// Telegram pushes computed signals to a chat. A nil *Telegram is a no-op,
// so callers can wire it unconditionally.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram returns a notifier, or (nil, nil) when token/chat are not
// configured.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Logger(),
	}, nil
}

// SendSummary posts both signals as one message. Either argument may be
// missing when its pipeline failed.
func (t *Telegram) SendSummary(shortTerm model.Classification, midTerm *model.SignalResult) error {
	if t == nil {
		return nil
	}

	text := "Signal update\n"
	if shortTerm != "" {
		text += fmt.Sprintf("BTC monthly MACD: %s\n", shortTerm)
	}
	if midTerm != nil {
		text += fmt.Sprintf("M2 YoY momentum: %s (latest %s %.2f%%, prior %s %.2f%%, delta %+.2f)",
			midTerm.Signal, midTerm.LatestMonth, midTerm.LatestYoY,
			midTerm.PriorMonth, midTerm.PriorYoY, midTerm.Delta)
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	t.logger.Info().Int64("chat_id", t.chatID).Msg("Sent signal summary")
	return nil
}
