package telegram

import (
	"context"
	"fmt"

	"ascent-club-bot/internal/gateway"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

// Gateway — адаптер Telegram Bot API: личные уведомления и управление
// составом закрытой группы. Использует тот же BotAPI, что и сам бот.
type Gateway struct {
	api *tgbotapi.BotAPI
	log *zap.SugaredLogger
}

func NewGateway(api *tgbotapi.BotAPI, log *zap.SugaredLogger) *Gateway {
	return &Gateway{api: api, log: log}
}

func (g *Gateway) SendMessage(_ context.Context, telegramID int64, text string) error {
	msg := tgbotapi.NewMessage(telegramID, text)
	if _, err := g.api.Send(msg); err != nil {
		return fmt.Errorf("send message to %d: %w", telegramID, err)
	}
	return nil
}

// AddMember снимает бан, оставшийся от прошлого отзыва доступа. Бот не
// может добавить пользователя в группу принудительно — вход идёт по
// пригласительной ссылке из уведомления об активации.
func (g *Gateway) AddMember(_ context.Context, groupID, telegramID int64) error {
	_, err := g.api.UnbanChatMember(tgbotapi.ChatMemberConfig{
		ChatID: groupID,
		UserID: int(telegramID),
	})
	if err != nil {
		return fmt.Errorf("unban member %d in %d: %w", telegramID, groupID, err)
	}
	return nil
}

// RemoveMember выгоняет из группы и сразу снимает бан: после продления
// подписчик должен суметь вернуться по ссылке без участия админа.
func (g *Gateway) RemoveMember(_ context.Context, groupID, telegramID int64) error {
	_, err := g.api.KickChatMember(tgbotapi.KickChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: groupID,
			UserID: int(telegramID),
		},
	})
	if err != nil {
		return fmt.Errorf("kick member %d from %d: %w", telegramID, groupID, err)
	}

	if _, err := g.api.UnbanChatMember(tgbotapi.ChatMemberConfig{
		ChatID: groupID,
		UserID: int(telegramID),
	}); err != nil {
		// Членство уже отозвано, поэтому только логируем
		g.log.Warnf("⚠️ Не удалось снять бан с %d: %v", telegramID, err)
	}

	return nil
}

func (g *Gateway) CreateInviteLink(_ context.Context, groupID int64) (string, error) {
	link, err := g.api.GetInviteLink(tgbotapi.ChatConfig{ChatID: groupID})
	if err != nil {
		return "", fmt.Errorf("export invite link for %d: %w", groupID, err)
	}
	return link, nil
}

var _ gateway.Messenger = (*Gateway)(nil)
var _ gateway.GroupGateway = (*Gateway)(nil)
