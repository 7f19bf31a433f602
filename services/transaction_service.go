package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic/models"
	"clinic/utils"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayoutRecalculator пересчитывает выплаты врачам после изменения транзакций
type PayoutRecalculator interface {
	Recalculate(ctx context.Context) ([]models.DoctorPayout, error)
}

// TransactionDTO представляет данные транзакции
type TransactionDTO struct {
	ReferenceID   string               `json:"referenceId" validate:"max=36"`
	ReferenceType models.ReferenceType `json:"referenceType" validate:"required,oneof=Appointment Exam Other"`
	PatientID     string               `json:"patientId" validate:"max=36"`
	PatientName   string               `json:"patientName" validate:"max=150"`
	Date          time.Time            `json:"date" validate:"required"`
	Description   string               `json:"description" validate:"required,max=255"`
	Amount        decimal.Decimal      `json:"amount" validate:"gt=0"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=PIX 'Credit Card' 'Debit Card' Cash Plan"`
	Status        models.PaymentStatus `json:"status" validate:"required,oneof=Pending Paid 'Partially Paid' Overdue Unpaid"`
	DoctorID      *string              `json:"doctorId"`
}

// TransactionFilter параметры выборки транзакций
type TransactionFilter struct {
	Search string
	Status models.PaymentStatus
}

// ReconciliationItem запись на прием, оплата которой еще не подтверждена
type ReconciliationItem struct {
	models.Appointment
	PaymentStatusDisplay models.PaymentStatus `json:"paymentStatusDisplay"`
	TransactionID        string               `json:"transactionId,omitempty"`
	TransactionAmount    *decimal.Decimal     `json:"transactionAmount,omitempty"`
}

// TransactionService предоставляет методы для работы с финансовыми транзакциями
type TransactionService struct {
	db        *gorm.DB
	validator *validator.Validate
	payouts   PayoutRecalculator
	pix       PIXConfig
	logger    *zerolog.Logger
}

// NewTransactionService создает новый экземпляр TransactionService
func NewTransactionService(db *gorm.DB, payouts PayoutRecalculator, pix PIXConfig) *TransactionService {
	return &TransactionService{
		db:        db,
		validator: newValidator(),
		payouts:   payouts,
		pix:       pix,
		logger:    utils.WithComponent("transactions"),
	}
}

// List возвращает транзакции, новые первыми
func (s *TransactionService) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	query := s.db.WithContext(ctx).Order("date DESC, id")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(patient_name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций: %w", err)
	}
	return transactions, nil
}

// Get возвращает транзакцию по ID
func (s *TransactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).First(&transaction, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("транзакция %s: %w", id, notFoundOr(err))
	}
	return &transaction, nil
}

// Create создает транзакцию и пересчитывает выплаты
func (s *TransactionService) Create(ctx context.Context, dto TransactionDTO) (*models.Transaction, error) {
	// столбец amount хранит два знака после запятой
	dto.Amount = dto.Amount.Round(2)
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{}
	applyTransactionDTO(transaction, dto)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return fmt.Errorf("ошибка при создании транзакции: %w", err)
		}
		return syncAppointmentPayment(tx, transaction)
	})
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, transaction)
	return transaction, nil
}

// Update изменяет транзакцию и пересчитывает выплаты
func (s *TransactionService) Update(ctx context.Context, id string, dto TransactionDTO) (*models.Transaction, error) {
	// столбец amount хранит два знака после запятой
	dto.Amount = dto.Amount.Round(2)
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	var transaction models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transaction, "id = ?", id).Error; err != nil {
			return fmt.Errorf("транзакция %s: %w", id, notFoundOr(err))
		}
		applyTransactionDTO(&transaction, dto)
		if err := tx.Save(&transaction).Error; err != nil {
			return fmt.Errorf("ошибка при обновлении транзакции: %w", err)
		}
		return syncAppointmentPayment(tx, &transaction)
	})
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, &transaction)
	return &transaction, nil
}

// MarkPaid переводит транзакцию в статус Paid. Способ оплаты по умолчанию PIX.
// Для уже оплаченной транзакции ничего не меняется.
func (s *TransactionService) MarkPaid(ctx context.Context, id string) (*models.Transaction, error) {
	var transaction models.Transaction
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transaction, "id = ?", id).Error; err != nil {
			return fmt.Errorf("транзакция %s: %w", id, notFoundOr(err))
		}
		if transaction.IsPaid() {
			return nil
		}
		changed = true
		return markPaid(tx, &transaction)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		utils.GetMetrics().RecordTransactionPaid()
		s.afterChange(ctx, &transaction)
	}
	return &transaction, nil
}

// PendingReconciliation возвращает записи на прием без подтвержденной оплаты.
// Если транзакции по записи нет, статус отображается как Unpaid.
func (s *TransactionService) PendingReconciliation(ctx context.Context) ([]ReconciliationItem, error) {
	db := s.db.WithContext(ctx)

	var appointments []models.Appointment
	if err := db.Order("date_time DESC, id").Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении записей: %w", err)
	}

	var transactions []models.Transaction
	if err := db.Where("reference_type = ?", models.ReferenceTypeAppointment).
		Order("created_at, id").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций: %w", err)
	}

	byAppointment := make(map[string]models.Transaction, len(transactions))
	for _, t := range transactions {
		if _, ok := byAppointment[t.ReferenceID]; !ok {
			byAppointment[t.ReferenceID] = t
		}
	}

	items := make([]ReconciliationItem, 0)
	for _, a := range appointments {
		item := ReconciliationItem{
			Appointment:          a,
			PaymentStatusDisplay: models.PaymentStatusUnpaid,
		}
		if t, ok := byAppointment[a.ID]; ok {
			amount := t.Amount
			item.PaymentStatusDisplay = t.Status
			item.TransactionID = t.ID
			item.TransactionAmount = &amount
		}
		if item.PaymentStatusDisplay == models.PaymentStatusPaid {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// ConfirmAppointmentPayment подтверждает оплату записи на прием.
// Существующая транзакция помечается оплаченной, иначе создается оплаченная
// транзакция PIX по цене услуги из прайс-листа.
func (s *TransactionService) ConfirmAppointmentPayment(ctx context.Context, appointmentID string) (*models.Transaction, error) {
	var transaction models.Transaction
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := tx.First(&appointment, "id = ?", appointmentID).Error; err != nil {
			return fmt.Errorf("запись %s: %w", appointmentID, notFoundOr(err))
		}

		err := tx.Where("reference_id = ? AND reference_type = ?", appointment.ID, models.ReferenceTypeAppointment).
			Order("created_at, id").
			First(&transaction).Error
		if err == nil {
			if transaction.IsPaid() {
				return nil
			}
			changed = true
			return markPaid(tx, &transaction)
		}
		if notFoundOr(err) != ErrNotFound {
			return fmt.Errorf("ошибка при поиске транзакции: %w", err)
		}

		amount := decimal.Zero
		var service models.Service
		if err := tx.First(&service, "id = ?", appointment.ServiceID).Error; err == nil {
			amount = service.Price
		} else if notFoundOr(err) != ErrNotFound {
			return fmt.Errorf("ошибка при поиске услуги: %w", err)
		}

		doctorID := appointment.DoctorID
		transaction = models.Transaction{
			ReferenceID:   appointment.ID,
			ReferenceType: models.ReferenceTypeAppointment,
			PatientID:     appointment.PatientID,
			PatientName:   appointment.PatientName,
			Date:          appointment.DateTime,
			Description:   fmt.Sprintf("%s - %s", appointment.ServiceName, appointment.DoctorName),
			Amount:        amount,
			PaymentMethod: models.PaymentMethodPIX,
			Status:        models.PaymentStatusPaid,
			DoctorID:      &doctorID,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return fmt.Errorf("ошибка при создании транзакции: %w", err)
		}
		changed = true
		return syncAppointmentPayment(tx, &transaction)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		utils.GetMetrics().RecordTransactionPaid()
		s.afterChange(ctx, &transaction)
	}
	return &transaction, nil
}

// PaymentQRCode возвращает PNG с QR кодом PIX для неоплаченной транзакции
func (s *TransactionService) PaymentQRCode(ctx context.Context, id string, size int) ([]byte, error) {
	transaction, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction.IsPaid() {
		return nil, fmt.Errorf("%w: транзакция %s уже оплачена", ErrConflict, id)
	}
	return PIXQRCode(s.pix, *transaction, size)
}

// MarkOverdue помечает просроченными неоплаченные транзакции старше cutoff
// и переносит статус на связанные записи на прием
func (s *TransactionService) MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	var swept int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overdue := func() *gorm.DB {
			return tx.Model(&models.Transaction{}).
				Where("status IN ? AND date < ?", []models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusUnpaid}, cutoff)
		}

		var appointmentIDs []string
		if err := overdue().
			Where("reference_type = ? AND reference_id <> ''", models.ReferenceTypeAppointment).
			Distinct().
			Pluck("reference_id", &appointmentIDs).Error; err != nil {
			return err
		}

		result := overdue().Update("status", models.PaymentStatusOverdue)
		if result.Error != nil {
			return result.Error
		}
		swept = result.RowsAffected

		if len(appointmentIDs) == 0 {
			return nil
		}
		return tx.Model(&models.Appointment{}).
			Where("id IN ?", appointmentIDs).
			Update("payment_status", models.PaymentStatusOverdue).Error
	})
	if err != nil {
		return 0, fmt.Errorf("ошибка при обработке просроченных транзакций: %w", err)
	}
	return swept, nil
}

// afterChange пересчитывает выплаты. Ошибка пересчета не отменяет изменение
// транзакции, следующий плановый пересчет исправит суммы.
func (s *TransactionService) afterChange(ctx context.Context, t *models.Transaction) {
	if s.payouts == nil {
		return
	}
	if _, err := s.payouts.Recalculate(ctx); err != nil {
		s.logger.Warn().Err(err).Str("transaction_id", t.ID).Msg("payout recalculation after transaction change failed")
	}
}

func markPaid(tx *gorm.DB, t *models.Transaction) error {
	t.Status = models.PaymentStatusPaid
	if t.PaymentMethod == "" {
		t.PaymentMethod = models.PaymentMethodPIX
	}
	if err := tx.Model(t).Select("status", "payment_method").Updates(t).Error; err != nil {
		return fmt.Errorf("ошибка при обновлении транзакции: %w", err)
	}
	return syncAppointmentPayment(tx, t)
}

// syncAppointmentPayment переносит статус оплаты на связанную запись на прием
func syncAppointmentPayment(tx *gorm.DB, t *models.Transaction) error {
	if t.ReferenceType != models.ReferenceTypeAppointment || t.ReferenceID == "" {
		return nil
	}
	if err := tx.Model(&models.Appointment{}).
		Where("id = ?", t.ReferenceID).
		Update("payment_status", t.Status).Error; err != nil {
		return fmt.Errorf("ошибка при обновлении статуса оплаты записи: %w", err)
	}
	return nil
}

func applyTransactionDTO(t *models.Transaction, dto TransactionDTO) {
	t.ReferenceID = dto.ReferenceID
	t.ReferenceType = dto.ReferenceType
	t.PatientID = dto.PatientID
	t.PatientName = strings.TrimSpace(dto.PatientName)
	t.Date = dto.Date
	t.Description = strings.TrimSpace(dto.Description)
	t.Amount = dto.Amount
	t.PaymentMethod = dto.PaymentMethod
	t.Status = dto.Status
	t.DoctorID = nil
	if dto.DoctorID != nil && *dto.DoctorID != "" {
		doctorID := *dto.DoctorID
		t.DoctorID = &doctorID
	}
}
