package scheduler

import (
	"context"
	"errors"
	"time"

	"ascent-club-bot/internal/service"

	"go.uber.org/zap"
)

// Scheduler запускает сверку раз в сутки в заданный час. Ручной запуск
// из бота идёт через тот же ReconciliationService.Sweep — отдельной
// ветки поведения у планировщика нет.
type Scheduler struct {
	reconciliation service.ReconciliationService
	log            *zap.SugaredLogger
	hour           int
}

func New(reconciliation service.ReconciliationService, hour int, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		reconciliation: reconciliation,
		log:            log,
		hour:           hour,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.log.Infof("⏰ Планировщик сверки запущен, ежедневно в %02d:00", s.hour)

	for {
		next := s.nextRun(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("⏰ Планировщик сверки остановлен")
			return
		case <-timer.C:
		}

		report, err := s.reconciliation.Sweep(ctx)
		switch {
		case errors.Is(err, service.ErrSweepRunning):
			// Ручной запуск уже работает — дневная норма будет выполнена им
			s.log.Info("🧹 Сверка пропущена: уже выполняется")
		case err != nil:
			s.log.Errorf("❌ Сверка завершилась с ошибкой: %v", err)
		default:
			s.log.Infof("🧹 Плановая сверка: напомнили=%d отозвали=%d сбоев=%d",
				report.Notified, report.Revoked, report.Failed)
		}
	}
}

func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
