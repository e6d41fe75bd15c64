package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/models/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// Обработка сообщения здесь
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()
	b.log.Infof("[%s] %s", message.From.UserName, message.Text)

	subscriber, err := b.SubscriberService.RegisterOrUpdate(
		ctx,
		int64(message.From.ID),
		message.From.FirstName,
		message.From.LastName,
		message.From.UserName,
	)
	if err != nil {
		b.log.Errorf("Ошибка регистрации подписчика: %v", err)
		b.sendMessage(message.Chat.ID, "❌ Ошибка при загрузке данных. Попробуйте позже.")
		return
	}

	chatID := message.Chat.ID

	// Контакт принимаем в любом состоянии
	if message.Contact != nil {
		b.handleContact(ctx, chatID, subscriber, message.Contact)
		return
	}

	// Проверяем состояние пользователя ПРЕЖДЕ обработки команд
	session := b.getOrCreateSession(chatID)

	if message.Text == "❌ Отмена" && session.State != StateDefault {
		b.resetSession(chatID)
		b.sendWelcomeMessage(chatID, subscriber)
		return
	}

	if session.State != StateDefault {
		switch session.State {
		case StateAwaitingContact:
			b.sendMessage(chatID, "📱 Нажмите кнопку «Поделиться контактом», чтобы продолжить")
		case StateSelectingPlan:
			b.handlePlanSelection(ctx, chatID, subscriber, message.Text)
		case StateAwaitingSupportMessage:
			b.handleSupportMessage(ctx, chatID, subscriber, message.Text)
		}
		return
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.sendWelcomeMessage(chatID, subscriber)
		case "reply":
			b.handleAdminReply(ctx, chatID, subscriber, message.CommandArguments())
		case "sweep":
			b.handleRunSweep(ctx, chatID, subscriber)
		default:
			b.sendWelcomeMessage(chatID, subscriber)
		}
		return
	}

	switch message.Text {
	case "💳 Купить подписку":
		b.handleBuySubscription(ctx, chatID, subscriber)
	case "🎫 Моя подписка":
		b.showMySubscription(ctx, chatID, subscriber)
	case "🔄 Проверить оплату":
		b.handleCheckPayment(ctx, chatID, subscriber)
	case "✉️ Написать админу":
		b.handleContactAdmin(chatID)
	case "👥 Подписчики":
		b.showAllSubscribers(ctx, chatID, subscriber)
	case "🧹 Запустить сверку":
		b.handleRunSweep(ctx, chatID, subscriber)
	default:
		b.sendWelcomeMessage(chatID, subscriber)
	}
}

func (b *Bot) sendWelcomeMessage(chatID int64, subscriber *models.Subscriber) {
	text := `🏔 Добро пожаловать в клуб Ascent!

Закрытый канал о скалолазании: разборы трасс, тренировки, выезды.

Выберите нужный раздел:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createMainKeyboard(config.AppConfig.IsAdmin(subscriber.TelegramID))
	b.api.Send(msg)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	b.api.Send(msg)
}

func (b *Bot) showMySubscription(ctx context.Context, chatID int64, subscriber *models.Subscriber) {
	text := "🎫 *Моя подписка*\n\n"

	if !subscriber.HasActiveSubscription(time.Now()) {
		text += "❌ Активной подписки нет.\n\nНажмите «💳 Купить подписку», чтобы попасть в клуб."
	} else {
		plan, err := models.PlanByCode(*subscriber.SubscriptionPlan)
		title := *subscriber.SubscriptionPlan
		if err == nil {
			title = plan.Title
		}

		text += "📦 *Тариф:* " + title + "\n"
		text += "📅 *Действует до:* " + subscriber.SubscriptionExpiry.Format("02.01.2006") + "\n"

		membership, err := b.SubscriberService.GetMembership(ctx, subscriber.ID)
		if err != nil {
			b.log.Errorf("Ошибка получения членства: %v", err)
		} else if membership != nil && membership.IsActive {
			text += "🏔 *Доступ к клубу:* открыт\n"
		} else {
			text += "🏔 *Доступ к клубу:* закрыт, напишите администратору\n"
		}
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = createMainKeyboard(config.AppConfig.IsAdmin(subscriber.TelegramID))
	b.api.Send(msg)
}

func (b *Bot) showAllSubscribers(ctx context.Context, chatID int64, subscriber *models.Subscriber) {
	if !config.AppConfig.IsAdmin(subscriber.TelegramID) {
		b.sendMessage(chatID, "❌ Эта функция доступна только администраторам")
		return
	}

	subscribers, err := b.SubscriberService.GetAll(ctx)
	if err != nil {
		b.sendMessage(chatID, "❌ Ошибка при выполнении запроса")
		return
	}

	if len(subscribers) == 0 {
		b.sendMessage(chatID, "📝 Список подписчиков пуст")
		return
	}

	now := time.Now()
	var message string = "👥 *Список подписчиков:*\n\n"

	for i, sub := range subscribers {
		displayName := sub.FirstName
		if sub.LastName != "" {
			displayName += " " + sub.LastName
		}
		if displayName == "" && sub.Username != "" {
			displayName = "@" + sub.Username
		}
		if displayName == "" {
			displayName = "Неизвестный подписчик"
		}

		message += fmt.Sprintf("%d. *%s*\n", i+1, displayName)

		if sub.HasActiveSubscription(now) {
			plan, err := models.PlanByCode(*sub.SubscriptionPlan)
			title := *sub.SubscriptionPlan
			if err == nil {
				title = plan.Title
			}
			message += fmt.Sprintf("   ✅ %s, до %s\n", title, sub.SubscriptionExpiry.Format("02.01.2006"))
		} else if sub.SubscriptionPlan != nil {
			message += "   ⏰ Подписка истекла\n"
		} else {
			message += "   ❌ Нет подписки\n"
		}

		message += "\n"
	}

	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

// handleRunSweep — ручной запуск той же самой сверки, что идёт по
// расписанию. Отдельного «ручного» пути нет.
func (b *Bot) handleRunSweep(ctx context.Context, chatID int64, subscriber *models.Subscriber) {
	if !config.AppConfig.IsAdmin(subscriber.TelegramID) {
		b.sendMessage(chatID, "❌ Эта функция доступна только администраторам")
		return
	}

	report, err := b.ReconciliationService.Sweep(ctx)
	if err != nil {
		b.sendMessage(chatID, "⚠️ Сверка не выполнена: "+err.Error())
		return
	}

	b.sendMessage(chatID, fmt.Sprintf(
		"🧹 Сверка завершена.\n\n⏳ Напоминаний: %d\n🚪 Отозвано: %d\n❌ Сбоев: %d",
		report.Notified, report.Revoked, report.Failed))
}

// handleAdminReply — ответ администратора подписчику: /reply <telegram_id> <текст>
func (b *Bot) handleAdminReply(ctx context.Context, chatID int64, subscriber *models.Subscriber, args string) {
	if !config.AppConfig.IsAdmin(subscriber.TelegramID) {
		b.sendMessage(chatID, "❌ Эта функция доступна только администраторам")
		return
	}

	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(parts) < 2 {
		b.sendMessage(chatID, "Использование: /reply <telegram_id> <текст>")
		return
	}

	targetID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		b.sendMessage(chatID, "❌ Некорректный telegram_id")
		return
	}

	reply := tgbotapi.NewMessage(targetID, "💬 Сообщение от администратора:\n\n"+parts[1])
	if _, err := b.api.Send(reply); err != nil {
		b.sendMessage(chatID, "❌ Не удалось доставить сообщение")
		return
	}

	b.sendMessage(chatID, "✅ Отправлено")
}
