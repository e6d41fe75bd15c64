package bot

import (
	"context"
	"fmt"

	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/models/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

func (b *Bot) handleContactAdmin(chatID int64) {
	session := b.getOrCreateSession(chatID)
	session.State = StateAwaitingSupportMessage

	msg := tgbotapi.NewMessage(chatID, "✉️ Напишите сообщение, и мы передадим его администраторам:")
	msg.ReplyMarkup = createCancelKeyboard()
	b.api.Send(msg)
}

func (b *Bot) handleSupportMessage(ctx context.Context, chatID int64, subscriber *models.Subscriber, text string) {
	b.resetSession(chatID)

	if _, err := b.SubscriberService.SaveSupportMessage(ctx, subscriber.ID, text); err != nil {
		b.log.Errorf("Ошибка сохранения обращения: %v", err)
		b.sendMessage(chatID, "❌ Не удалось отправить сообщение. Попробуйте позже.")
		return
	}

	forward := fmt.Sprintf("✉️ Сообщение от %s %s (@%s, id %d):\n\n%s\n\nОтветить: /reply %d <текст>",
		subscriber.FirstName, subscriber.LastName, subscriber.Username,
		subscriber.TelegramID, text, subscriber.TelegramID)

	for _, adminID := range config.AppConfig.Bot.AdminIDs {
		if _, err := b.api.Send(tgbotapi.NewMessage(adminID, forward)); err != nil {
			b.log.Warnf("⚠️ Не удалось переслать обращение админу %d: %v", adminID, err)
		}
	}

	msg := tgbotapi.NewMessage(chatID, "✅ Сообщение передано администраторам!")
	msg.ReplyMarkup = createMainKeyboard(config.AppConfig.IsAdmin(subscriber.TelegramID))
	b.api.Send(msg)
}
