package reconciliation_service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ascent-club-bot/internal/gateway"
	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/repository"
	"ascent-club-bot/internal/service"

	"go.uber.org/zap"
)

// За сколько дней до истечения напоминаем о продлении
const noticeDays = 3

// Сверка гоняет каждое членство по машине состояний
// Active-NotNotified -> Active-Notified -> Inactive. Сбой на одном
// кандидате не прерывает остальных; флаги в БД — единственный арбитр
// оставшейся работы, поэтому повторный прогон безопасен.
type reconciliationService struct {
	store     repository.Store
	messenger gateway.Messenger
	groups    gateway.GroupGateway
	log       *zap.SugaredLogger

	mu  sync.Mutex
	now func() time.Time
}

func NewReconciliationService(
	store repository.Store,
	messenger gateway.Messenger,
	groups gateway.GroupGateway,
	log *zap.SugaredLogger,
) service.ReconciliationService {
	return &reconciliationService{
		store:     store,
		messenger: messenger,
		groups:    groups,
		log:       log,
		now:       time.Now,
	}
}

func (s *reconciliationService) Sweep(ctx context.Context) (*service.SweepReport, error) {
	// Плановый и ручной запуск не должны идти одновременно: до коммита
	// MarkNotified параллельный прогон разослал бы напоминания дважды
	if !s.mu.TryLock() {
		return nil, service.ErrSweepRunning
	}
	defer s.mu.Unlock()

	today := models.DateOnly(s.now())
	report := &service.SweepReport{}

	if err := s.notifyExpiring(ctx, today, report); err != nil {
		return report, err
	}
	if err := s.revokeExpired(ctx, today, report); err != nil {
		return report, err
	}

	s.log.Infof("🧹 Сверка завершена: напомнили=%d отозвали=%d сбоев=%d",
		report.Notified, report.Revoked, report.Failed)
	return report, nil
}

func (s *reconciliationService) notifyExpiring(ctx context.Context, today time.Time, report *service.SweepReport) error {
	memberships, err := s.store.Memberships().FindExpiringOn(ctx, today.AddDate(0, 0, noticeDays))
	if err != nil {
		return fmt.Errorf("выборка истекающих членств: %w", err)
	}

	for _, membership := range memberships {
		// Отмена прогона — только между кандидатами, не посреди одного
		if err := ctx.Err(); err != nil {
			return err
		}

		subscriber, err := s.store.Subscribers().GetByID(ctx, membership.SubscriberID)
		if err != nil {
			s.log.Errorf("❌ Подписчик %d не найден для напоминания: %v", membership.SubscriberID, err)
			report.Failed++
			continue
		}

		text := fmt.Sprintf("⏳ Подписка истекает %s. Продлите её, чтобы остаться в клубе!",
			models.DateOnly(membership.ExpiryAt).Format("02.01.2006"))
		if err := s.messenger.SendMessage(ctx, subscriber.TelegramID, text); err != nil {
			// Флаг не трогаем: напоминание уйдёт в следующий прогон
			s.log.Warnf("⚠️ Напоминание подписчику %d не доставлено: %v", subscriber.TelegramID, err)
			report.Failed++
			continue
		}

		if err := s.store.Memberships().MarkNotified(ctx, membership.SubscriberID, membership.GroupID); err != nil {
			s.log.Errorf("❌ Не удалось отметить напоминание для %d: %v", membership.SubscriberID, err)
			report.Failed++
			continue
		}
		report.Notified++
	}

	return nil
}

func (s *reconciliationService) revokeExpired(ctx context.Context, today time.Time, report *service.SweepReport) error {
	memberships, err := s.store.Memberships().FindExpiredAsOf(ctx, today)
	if err != nil {
		return fmt.Errorf("выборка истёкших членств: %w", err)
	}

	for _, membership := range memberships {
		if err := ctx.Err(); err != nil {
			return err
		}

		subscriber, err := s.store.Subscribers().GetByID(ctx, membership.SubscriberID)
		if err != nil {
			s.log.Errorf("❌ Подписчик %d не найден для отзыва: %v", membership.SubscriberID, err)
			report.Failed++
			continue
		}

		// Сначала удаление из группы, только потом флаг и уведомление.
		// При сбое is_active остаётся true, и кандидат вернётся в
		// следующий прогон; «вы исключены» без исключения не шлём.
		if err := s.groups.RemoveMember(ctx, membership.GroupID, subscriber.TelegramID); err != nil {
			s.log.Warnf("⚠️ Не удалось исключить %d из группы: %v", subscriber.TelegramID, err)
			report.Failed++
			continue
		}

		if err := s.store.Memberships().Deactivate(ctx, membership.SubscriberID, membership.GroupID); err != nil {
			s.log.Errorf("❌ Не удалось деактивировать членство %d: %v", membership.SubscriberID, err)
			report.Failed++
			continue
		}

		text := "🚪 Срок подписки истёк, доступ к клубу закрыт. Оформите новую подписку, чтобы вернуться."
		if err := s.messenger.SendMessage(ctx, subscriber.TelegramID, text); err != nil {
			s.log.Warnf("⚠️ Уведомление об отзыве для %d не доставлено: %v", subscriber.TelegramID, err)
		}
		report.Revoked++
	}

	return nil
}
