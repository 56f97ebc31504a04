// Package notify pushes booking alerts to the charter office Telegram chat.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"helmsman/internal/models"
)

// TelegramNotifier sends admin alerts, rate limited to stay inside the
// Telegram API budget.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// NewTelegram creates a notifier; chatIDs are the admin chats to alert.
func NewTelegram(token string, chatIDs []int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:     bot,
		chatIDs: chatIDs,
		limiter: rate.NewLimiter(rate.Limit(20), 30),
		logger:  logger,
	}, nil
}

// ReservationCreated alerts admins about a freshly booked charter.
func (n *TelegramNotifier) ReservationCreated(ctx context.Context, r *models.Reservation, yachtName string) error {
	msg := fmt.Sprintf("New charter: %s on %s, %s to %s, %d guests",
		r.CustomerName, yachtName,
		r.Start.Format("02.01.2006 15:04"), r.End.Format("02.01.2006 15:04"),
		r.GuestCount)
	return n.broadcast(ctx, msg)
}

// ConflictOverridden alerts admins that a tentative hold was bumped.
func (n *TelegramNotifier) ConflictOverridden(ctx context.Context, r *models.Reservation, bumpedID string) error {
	msg := fmt.Sprintf("Conflict override: reservation %s booked over tentative hold %s (%s to %s)",
		r.ID, bumpedID, r.Start.Format("02.01.2006"), r.End.Format("02.01.2006"))
	return n.broadcast(ctx, msg)
}

func (n *TelegramNotifier) broadcast(ctx context.Context, text string) error {
	for _, chatID := range n.chatIDs {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
			// Keep going; one broken chat must not silence the rest.
		}
	}
	return nil
}
