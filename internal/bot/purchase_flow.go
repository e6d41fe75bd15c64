package bot

import (
	"context"
	"errors"
	"fmt"

	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/models/config"
	"ascent-club-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

func (b *Bot) handleBuySubscription(ctx context.Context, chatID int64, subscriber *models.Subscriber) {
	// Без контакта покупку не начинаем: телефон нужен для связи по оплате
	if subscriber.PhoneNumber == "" {
		session := b.getOrCreateSession(chatID)
		session.State = StateAwaitingContact

		msg := tgbotapi.NewMessage(chatID, "📱 Для оформления подписки поделитесь контактом:")
		msg.ReplyMarkup = createContactKeyboard()
		b.api.Send(msg)
		return
	}

	b.showPlans(chatID)
}

func (b *Bot) showPlans(chatID int64) {
	session := b.getOrCreateSession(chatID)
	session.State = StateSelectingPlan

	msgText := "💳 *Выберите тариф:*\n\n"
	for _, plan := range models.Plans {
		msgText += fmt.Sprintf("• %s — %d риалов\n", plan.Title, plan.Amount)
	}

	msg := tgbotapi.NewMessage(chatID, msgText)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = createPlansKeyboard()
	b.api.Send(msg)
}

func (b *Bot) handleContact(ctx context.Context, chatID int64, subscriber *models.Subscriber, contact *tgbotapi.Contact) {
	// Принимаем только собственный контакт пользователя
	if int64(contact.UserID) != subscriber.TelegramID {
		b.sendMessage(chatID, "❌ Пожалуйста, отправьте свой собственный контакт")
		return
	}

	if err := b.SubscriberService.SavePhoneNumber(ctx, subscriber.TelegramID, contact.PhoneNumber); err != nil {
		b.log.Errorf("Ошибка сохранения телефона: %v", err)
		b.sendMessage(chatID, "❌ Не удалось сохранить контакт. Попробуйте позже.")
		return
	}
	subscriber.PhoneNumber = contact.PhoneNumber

	b.sendMessage(chatID, "✅ Контакт сохранён!")
	b.showPlans(chatID)
}

func (b *Bot) handlePlanSelection(ctx context.Context, chatID int64, subscriber *models.Subscriber, text string) {
	plan, err := models.PlanByTitle(text)
	if err != nil {
		b.sendMessage(chatID, "❌ Выберите тариф кнопкой или отправьте '❌ Отмена'")
		return
	}

	b.resetSession(chatID)

	payURL, err := b.PaymentService.InitiatePurchase(ctx, subscriber.ID, plan.Code)
	if err != nil {
		b.log.Errorf("Ошибка создания платежа: %v", err)
		b.sendMessage(chatID, "⚠️ Платёжный шлюз недоступен. Попробуйте через пару минут.")
		return
	}

	text = fmt.Sprintf(`🧾 Тариф «%s», к оплате %d риалов.

Перейдите по ссылке для оплаты:
%s

После оплаты вернитесь и нажмите «🔄 Проверить оплату».`, plan.Title, plan.Amount, payURL)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createMainKeyboard(config.AppConfig.IsAdmin(subscriber.TelegramID))
	msg.DisableWebPagePreview = true
	b.api.Send(msg)
}

// handleCheckPayment — ручная проверка оплаты. Идёт через тот же
// Activation Engine, что и вебхук: гонка двух триггеров даёт одну
// активацию, второй получает спокойное «уже активна».
func (b *Bot) handleCheckPayment(ctx context.Context, chatID int64, subscriber *models.Subscriber) {
	transaction, err := b.SubscriberService.LatestPendingTransaction(ctx, subscriber.ID)
	if errors.Is(err, service.ErrNotFound) {
		b.sendMessage(chatID, "ℹ️ Ожидающих оплат нет. Если подписка активна, всё в порядке!")
		return
	}
	if err != nil {
		b.log.Errorf("Ошибка поиска транзакции: %v", err)
		b.sendMessage(chatID, "❌ Ошибка при проверке. Попробуйте позже.")
		return
	}

	activated, err := b.ActivationService.Activate(ctx, transaction.TrackID)
	switch {
	case err == nil && activated:
		b.sendMessage(chatID, "✅ Оплата найдена, подписка активирована!")
	case err == nil:
		// Уже обработано другим триггером — не ошибка
		b.sendMessage(chatID, "ℹ️ Эта оплата уже учтена, подписка активна.")
	case errors.Is(err, service.ErrNotPaid):
		b.sendMessage(chatID, "⌛ Оплата ещё не прошла. Завершите платёж и попробуйте снова.")
	case errors.Is(err, service.ErrAlreadyVerified):
		b.sendMessage(chatID, "ℹ️ Платёж уже подтверждался. Если подписка не активна, напишите администратору.")
	case errors.Is(err, service.ErrGateway):
		b.sendMessage(chatID, "⚠️ Платёжный шлюз недоступен. Попробуйте через пару минут.")
	default:
		b.log.Errorf("Ошибка активации %s: %v", transaction.TrackID, err)
		b.sendMessage(chatID, "❌ Ошибка при проверке. Попробуйте позже.")
	}
}
