package activation_service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ascent-club-bot/internal/gateway"
	"ascent-club-bot/internal/models"
	"ascent-club-bot/internal/repository"
	"ascent-club-bot/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// errAlreadyActivated — проигравший из двух конкурентных вызовов:
// CAS по статусу не прошёл, откатываем транзакцию без ошибки наружу
var errAlreadyActivated = errors.New("транзакция уже обработана")

type activationService struct {
	store     repository.Store
	payments  gateway.PaymentGateway
	messenger gateway.Messenger
	groups    gateway.GroupGateway
	groupID   int64
	log       *zap.SugaredLogger

	flights singleflight.Group
	now     func() time.Time
}

func NewActivationService(
	store repository.Store,
	payments gateway.PaymentGateway,
	messenger gateway.Messenger,
	groups gateway.GroupGateway,
	groupID int64,
	log *zap.SugaredLogger,
) service.ActivationService {
	return &activationService{
		store:     store,
		payments:  payments,
		messenger: messenger,
		groups:    groups,
		groupID:   groupID,
		log:       log,
		now:       time.Now,
	}
}

// Activate — вход для всех триггеров: вебхука шлюза и ручной проверки из
// бота. Конкурентные вызовы с одним trackId схлопываются в один полёт,
// дубль получает результат первого.
func (s *activationService) Activate(ctx context.Context, trackID string) (bool, error) {
	v, err, _ := s.flights.Do(trackID, func() (interface{}, error) {
		return s.activate(ctx, trackID)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (s *activationService) activate(ctx context.Context, trackID string) (bool, error) {
	transaction, err := s.store.Transactions().GetByTrackID(ctx, trackID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, service.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("загрузка транзакции %s: %w", trackID, err)
	}

	if transaction.Status == models.TransactionStatusSuccess {
		// Повторный триггер: платёж уже превращён в подписку
		return false, nil
	}

	// Статус оплаты проверяем у шлюза сами. Флаг success из тела вебхука
	// не используется: это заявление неаутентифицированного клиента.
	verify, err := s.payments.Verify(ctx, trackID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", service.ErrGateway, err)
	}

	switch verify.Result {
	case gateway.ResultConfirmed:
	case gateway.ResultAlreadyVerified:
		return false, service.ErrAlreadyVerified
	case gateway.ResultNotPaid:
		return false, service.ErrNotPaid
	default:
		return false, fmt.Errorf("%w: result=%d message=%s", service.ErrGateway, verify.Result, verify.Message)
	}

	var (
		subscriber *models.Subscriber
		newExpiry  time.Time
		inviteLink string
	)

	// Группа записей активации — одна транзакция БД: никто не увидит
	// success-транзакцию без обновлённой подписки и членства
	err = s.store.WithinTx(ctx, func(st repository.Store) error {
		updated, err := st.Transactions().MarkSuccess(ctx, trackID)
		if err != nil {
			return fmt.Errorf("перевод транзакции в success: %w", err)
		}
		if !updated {
			return errAlreadyActivated
		}

		subscriber, err = st.Subscribers().GetByID(ctx, transaction.SubscriberID)
		if err != nil {
			return fmt.Errorf("загрузка подписчика %d: %w", transaction.SubscriberID, err)
		}

		newExpiry = nextExpiry(subscriber, transaction.Months, s.now())
		if err := st.Subscribers().SetSubscription(ctx, subscriber.ID, transaction.Plan, newExpiry); err != nil {
			return fmt.Errorf("обновление подписки: %w", err)
		}

		membership, err := st.Memberships().Get(ctx, subscriber.ID, s.groupID)
		if err != nil {
			return fmt.Errorf("загрузка членства: %w", err)
		}

		if membership != nil {
			if err := st.Memberships().Extend(ctx, subscriber.ID, s.groupID, newExpiry); err != nil {
				return fmt.Errorf("продление членства: %w", err)
			}
			return nil
		}

		// Первое членство: пробуем добавить в группу, при неудаче
		// берём пригласительную ссылку. Строку создаём в любом случае,
		// иначе неудачное добавление потеряется для повтора и сверки.
		if addErr := s.groups.AddMember(ctx, s.groupID, subscriber.TelegramID); addErr != nil {
			s.log.Warnf("⚠️ Не удалось добавить %d в группу: %v", subscriber.TelegramID, addErr)

			link, linkErr := s.groups.CreateInviteLink(ctx, s.groupID)
			if linkErr != nil {
				s.log.Errorf("❌ Не удалось получить пригласительную ссылку: %v", linkErr)
			} else {
				inviteLink = link
			}
		}

		return st.Memberships().Create(ctx, &models.Membership{
			SubscriberID:     subscriber.ID,
			GroupID:          s.groupID,
			JoinedAt:         s.now(),
			ExpiryAt:         newExpiry,
			IsActive:         true,
			NotificationSent: false,
		})
	})
	if errors.Is(err, errAlreadyActivated) {
		return false, nil
	}
	if err != nil {
		// Откат целиком: лучше нетронутые книги, чем половина активации
		return false, err
	}

	s.log.Infof("✅ Активация: подписчик=%d тариф=%s до %s (trackId=%s)",
		subscriber.ID, transaction.Plan, newExpiry.Format("2006-01-02"), trackID)

	s.notify(ctx, subscriber, transaction, newExpiry, inviteLink)
	return true, nil
}

// notify отправляет единственное уведомление об активации. Сбой доставки
// активацию не отменяет — книги уже согласованы.
func (s *activationService) notify(ctx context.Context, subscriber *models.Subscriber, transaction *models.Transaction, expiry time.Time, inviteLink string) {
	plan, err := models.PlanByCode(transaction.Plan)
	title := transaction.Plan
	if err == nil {
		title = plan.Title
	}

	text := fmt.Sprintf("🎉 Оплата прошла! Подписка «%s» активна.\n\n📅 Действует до: %s",
		title, expiry.Format("02.01.2006"))
	if inviteLink != "" {
		text += "\n\n🔗 Вход в клуб: " + inviteLink
	}

	if err := s.messenger.SendMessage(ctx, subscriber.TelegramID, text); err != nil {
		s.log.Warnf("⚠️ Не удалось уведомить подписчика %d: %v", subscriber.TelegramID, err)
	}
}

// nextExpiry — правило продления: отсчёт от текущего срока, если он ещё
// не истёк, иначе от сегодняшней даты. Срок никогда не двигается назад.
func nextExpiry(subscriber *models.Subscriber, months int, now time.Time) time.Time {
	base := models.DateOnly(now)
	if subscriber.SubscriptionExpiry != nil {
		if current := models.DateOnly(*subscriber.SubscriptionExpiry); current.After(base) {
			base = current
		}
	}
	return base.AddDate(0, months, 0)
}
