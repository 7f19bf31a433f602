package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clinic/models"
	"clinic/utils"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PayoutService предоставляет методы для работы с выплатами врачам
type PayoutService struct {
	db       *gorm.DB
	notifier Notifier
	logger   *zerolog.Logger
	now      func() time.Time

	// mu сериализует пересчеты внутри процесса, строки выплат блокируются в БД
	mu sync.Mutex
}

// NewPayoutService создает новый экземпляр PayoutService
func NewPayoutService(db *gorm.DB, notifier Notifier) *PayoutService {
	return &PayoutService{
		db:       db,
		notifier: notifier,
		logger:   utils.WithComponent("payouts"),
		now:      time.Now,
	}
}

// Recalculate пересчитывает выплаты всех врачей в одной транзакции БД
func (s *PayoutService) Recalculate(ctx context.Context) ([]models.DoctorPayout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	payouts, err := s.recalculate(ctx)
	utils.GetMetrics().RecordRecalculation(time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).Msg("payout recalculation failed")
		return nil, err
	}

	s.logger.Debug().Int("payouts", len(payouts)).Dur("duration", time.Since(start)).Msg("payouts recalculated")
	return payouts, nil
}

func (s *PayoutService) recalculate(ctx context.Context) ([]models.DoctorPayout, error) {
	// Начинаем транзакцию
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", tx.Error)
	}
	defer tx.Rollback()

	var existing []models.DoctorPayout
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("created_at, id").
		Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении выплат: %w", err)
	}

	var transactions []models.Transaction
	if err := tx.Where("status = ? AND doctor_id IS NOT NULL", models.PaymentStatusPaid).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций: %w", err)
	}

	var doctors []models.Doctor
	if err := tx.Order("name, id").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении врачей: %w", err)
	}

	before := make(map[string]models.DoctorPayout, len(existing))
	for _, p := range existing {
		before[p.ID] = p
	}

	result := ReconcilePayouts(transactions, doctors, existing, s.now())

	for i := range result {
		p := &result[i]
		old, ok := before[p.ID]
		if !ok {
			if err := tx.Create(p).Error; err != nil {
				return nil, fmt.Errorf("ошибка при создании выплаты врачу %s: %w", p.DoctorID, err)
			}
			continue
		}
		if old.TotalBilled.Equal(p.TotalBilled) &&
			old.PayoutRate.Equal(p.PayoutRate) &&
			old.PayoutAmount.Equal(p.PayoutAmount) {
			continue
		}
		// Пересчет обновляет только вычисляемые поля
		if err := tx.Model(&models.DoctorPayout{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"total_billed":  p.TotalBilled,
				"payout_rate":   p.PayoutRate,
				"payout_amount": p.PayoutAmount,
			}).Error; err != nil {
			return nil, fmt.Errorf("ошибка при обновлении выплаты %s: %w", p.ID, err)
		}
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("ошибка при подтверждении транзакции: %w", err)
	}

	return result, nil
}

// List возвращает выплаты, отсортированные по имени врача
func (s *PayoutService) List(ctx context.Context) ([]models.DoctorPayout, error) {
	var payouts []models.DoctorPayout
	if err := s.db.WithContext(ctx).Order("doctor_name, id").Find(&payouts).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении выплат: %w", err)
	}
	return payouts, nil
}

// Get возвращает выплату по ID
func (s *PayoutService) Get(ctx context.Context, id string) (*models.DoctorPayout, error) {
	var payout models.DoctorPayout
	if err := s.db.WithContext(ctx).First(&payout, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("выплата %s: %w", id, notFoundOr(err))
	}
	return &payout, nil
}

// MarkPaid переводит выплату в статус Paid и уведомляет врача
func (s *PayoutService) MarkPaid(ctx context.Context, id string) (*models.DoctorPayout, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", tx.Error)
	}
	defer tx.Rollback()

	var payout models.DoctorPayout
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payout, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("выплата %s: %w", id, notFoundOr(err))
	}

	if payout.Status == models.PayoutStatusPaid {
		return nil, fmt.Errorf("%w: выплата %s уже оплачена", ErrConflict, id)
	}

	now := s.now()
	payout.Status = models.PayoutStatusPaid
	payout.PaidDate = &now

	if err := tx.Model(&payout).Select("status", "paid_date").Updates(&payout).Error; err != nil {
		return nil, fmt.Errorf("ошибка при обновлении выплаты: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("ошибка при подтверждении транзакции: %w", err)
	}

	utils.GetMetrics().RecordPayoutSettled()
	s.logger.Info().Str("payout_id", payout.ID).Str("doctor_id", payout.DoctorID).
		Str("amount", payout.PayoutAmount.String()).Msg("payout settled")

	s.notifySettled(ctx, payout)

	return &payout, nil
}

// notifySettled отправляет уведомление врачу. Ошибки только логируются.
func (s *PayoutService) notifySettled(ctx context.Context, payout models.DoctorPayout) {
	if s.notifier == nil {
		return
	}

	var doctor models.Doctor
	if err := s.db.WithContext(ctx).First(&doctor, "id = ?", payout.DoctorID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Str("doctor_id", payout.DoctorID).Msg("failed to load doctor for notification")
		}
		return
	}
	if doctor.Email == "" {
		return
	}

	if err := s.notifier.NotifyPayoutSettled(ctx, doctor, payout); err != nil {
		utils.GetMetrics().RecordError(err)
		s.logger.Warn().Err(err).Str("payout_id", payout.ID).Msg("failed to notify doctor")
	}
}
