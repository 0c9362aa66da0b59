package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram шлёт оповещения в админский чат. Ошибка отправки только
// логируется: оповещение никогда не валит операцию склада.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger
}

func NewTelegram(token string, adminChatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: telegram init: %w", err)
	}
	return &Telegram{api: api, chatID: adminChatID, log: log}, nil
}

func (t *Telegram) LowStock(_ context.Context, material string, remaining float64, unit string) {
	text := fmt.Sprintf("⚠️ Остаток «%s» ниже порога: %.3f %s", material, remaining, unit)
	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		t.log.Error("low stock alert send failed", "material", material, "err", err)
	}
}
