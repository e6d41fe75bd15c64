package bot

import (
	"ascent-club-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

func createMainKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	if isAdmin {
		return tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton("💳 Купить подписку"),
				tgbotapi.NewKeyboardButton("🎫 Моя подписка"),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton("🔄 Проверить оплату"),
				tgbotapi.NewKeyboardButton("✉️ Написать админу"),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton("👥 Подписчики"),
				tgbotapi.NewKeyboardButton("🧹 Запустить сверку"),
			),
		)
	}

	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("💳 Купить подписку"),
			tgbotapi.NewKeyboardButton("🎫 Моя подписка"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🔄 Проверить оплату"),
			tgbotapi.NewKeyboardButton("✉️ Написать админу"),
		),
	)
}

func createPlansKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	for _, plan := range models.Plans {
		btn := tgbotapi.NewKeyboardButton(plan.Title)
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(btn))
	}

	cancelBtn := tgbotapi.NewKeyboardButton("❌ Отмена")
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(cancelBtn))

	return tgbotapi.NewReplyKeyboard(rows...)
}

func createContactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 Поделиться контактом"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("❌ Отмена"),
		),
	)
}

func createCancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("❌ Отмена"),
		),
	)
}
