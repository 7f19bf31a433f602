package services

import (
	"context"
	"sync"
	"time"

	"clinic/utils"

	"github.com/rs/zerolog"
)

// SchedulerConfig параметры фоновых задач
type SchedulerConfig struct {
	OverdueAfterDays int
	OverdueInterval  time.Duration
	RecalcInterval   time.Duration
}

// SchedulerService предоставляет методы для фоновой обработки транзакций и выплат
type SchedulerService struct {
	transactions *TransactionService
	payouts      PayoutRecalculator
	cfg          SchedulerConfig
	logger       *zerolog.Logger
	now          func() time.Time
	wg           sync.WaitGroup
}

// NewSchedulerService создает новый экземпляр SchedulerService
func NewSchedulerService(transactions *TransactionService, payouts PayoutRecalculator, cfg SchedulerConfig) *SchedulerService {
	return &SchedulerService{
		transactions: transactions,
		payouts:      payouts,
		cfg:          cfg,
		logger:       utils.WithComponent("scheduler"),
		now:          time.Now,
	}
}

// Start запускает планировщик. Задачи останавливаются при отмене контекста.
func (s *SchedulerService) Start(ctx context.Context) {
	// Пересчет выплат
	if s.cfg.RecalcInterval > 0 {
		s.wg.Add(1)
		go s.loop(ctx, s.cfg.RecalcInterval, "recalculate payouts", func(ctx context.Context) error {
			_, err := s.payouts.Recalculate(ctx)
			return err
		})
	}

	// Обработка просроченных транзакций
	if s.cfg.OverdueInterval > 0 && s.cfg.OverdueAfterDays > 0 {
		s.wg.Add(1)
		go s.loop(ctx, s.cfg.OverdueInterval, "mark overdue transactions", s.ProcessOverdue)
	}

	s.logger.Info().
		Dur("recalc_interval", s.cfg.RecalcInterval).
		Dur("overdue_interval", s.cfg.OverdueInterval).
		Msg("scheduler started")
}

// Wait ожидает завершения задач после отмены контекста
func (s *SchedulerService) Wait() {
	s.wg.Wait()
}

func (s *SchedulerService) loop(ctx context.Context, interval time.Duration, name string, job func(context.Context) error) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug().Str("job", name).Msg("job stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if err := job(ctx); err != nil {
				s.logger.Error().Err(err).Str("job", name).Msg("scheduled job failed")
				continue
			}
			s.logger.Debug().Str("job", name).Dur("duration", time.Since(start)).Msg("scheduled job completed")
		}
	}
}

// ProcessOverdue помечает просроченными неоплаченные транзакции старше
// OverdueAfterDays дней
func (s *SchedulerService) ProcessOverdue(ctx context.Context) error {
	cutoff := s.now().AddDate(0, 0, -s.cfg.OverdueAfterDays)
	count, err := s.transactions.MarkOverdue(ctx, cutoff)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info().Int64("count", count).Time("cutoff", cutoff).Msg("transactions marked overdue")
	}
	return nil
}
