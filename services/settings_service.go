package services

import (
	"context"
	"fmt"
	"strings"

	"clinic/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// payoutShareScale число знаков доли врача, которое хранится в БД
const payoutShareScale = 4

// DoctorDTO представляет данные для создания и изменения врача
type DoctorDTO struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Specialty   string           `json:"specialty" validate:"max=100"`
	PayoutShare *decimal.Decimal `json:"payoutShare"`
	Email       string           `json:"email" validate:"omitempty,email"`
}

// ServiceDTO представляет данные услуги прайс-листа
type ServiceDTO struct {
	Name     string                 `json:"name" validate:"required,max=150"`
	Price    decimal.Decimal        `json:"price" validate:"gte=0"`
	Category models.ServiceCategory `json:"category" validate:"required,oneof=Consultation Exam Procedure"`
}

// SettingsService управляет списком врачей и прайс-листом клиники
type SettingsService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewSettingsService создает новый экземпляр SettingsService
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{
		db:        db,
		validator: newValidator(),
	}
}

// ClampPayoutShare ограничивает долю врача диапазоном [0, 1]
func ClampPayoutShare(share decimal.Decimal) decimal.Decimal {
	if share.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if share.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return share.Round(payoutShareScale)
}

func toNullShare(share *decimal.Decimal) decimal.NullDecimal {
	if share == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(ClampPayoutShare(*share))
}

// ListDoctors возвращает всех врачей
func (s *SettingsService) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := s.db.WithContext(ctx).Order("name, id").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении врачей: %w", err)
	}
	return doctors, nil
}

// GetDoctor возвращает врача по ID
func (s *SettingsService) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("врач %s: %w", id, notFoundOr(err))
	}
	return &doctor, nil
}

// CreateDoctor создает врача. Доля в выплатах ограничивается диапазоном [0, 1].
func (s *SettingsService) CreateDoctor(ctx context.Context, dto DoctorDTO) (*models.Doctor, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	doctor := &models.Doctor{
		Name:        strings.TrimSpace(dto.Name),
		Specialty:   dto.Specialty,
		PayoutShare: toNullShare(dto.PayoutShare),
		Email:       dto.Email,
	}
	if err := s.db.WithContext(ctx).Create(doctor).Error; err != nil {
		return nil, fmt.Errorf("ошибка при создании врача: %w", err)
	}
	return doctor, nil
}

// UpdateDoctor изменяет данные врача. Отсутствующая доля сохраняется как NULL.
func (s *SettingsService) UpdateDoctor(ctx context.Context, id string, dto DoctorDTO) (*models.Doctor, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	doctor, err := s.GetDoctor(ctx, id)
	if err != nil {
		return nil, err
	}

	doctor.Name = strings.TrimSpace(dto.Name)
	doctor.Specialty = dto.Specialty
	doctor.PayoutShare = toNullShare(dto.PayoutShare)
	doctor.Email = dto.Email

	if err := s.db.WithContext(ctx).
		Model(doctor).
		Select("name", "specialty", "payout_share", "email").
		Updates(doctor).Error; err != nil {
		return nil, fmt.Errorf("ошибка при обновлении врача: %w", err)
	}
	return doctor, nil
}

// ListServices возвращает прайс-лист клиники
func (s *SettingsService) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := s.db.WithContext(ctx).Order("category, name").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении услуг: %w", err)
	}
	return services, nil
}

// GetService возвращает услугу по ID
func (s *SettingsService) GetService(ctx context.Context, id string) (*models.Service, error) {
	var service models.Service
	if err := s.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("услуга %s: %w", id, notFoundOr(err))
	}
	return &service, nil
}

// CreateService добавляет услугу в прайс-лист
func (s *SettingsService) CreateService(ctx context.Context, dto ServiceDTO) (*models.Service, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	service := &models.Service{
		Name:     strings.TrimSpace(dto.Name),
		Price:    dto.Price,
		Category: dto.Category,
	}
	if err := s.db.WithContext(ctx).Create(service).Error; err != nil {
		return nil, fmt.Errorf("ошибка при создании услуги: %w", err)
	}
	return service, nil
}

// UpdateService изменяет услугу прайс-листа
func (s *SettingsService) UpdateService(ctx context.Context, id string, dto ServiceDTO) (*models.Service, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	service, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	service.Name = strings.TrimSpace(dto.Name)
	service.Price = dto.Price
	service.Category = dto.Category

	if err := s.db.WithContext(ctx).Save(service).Error; err != nil {
		return nil, fmt.Errorf("ошибка при обновлении услуги: %w", err)
	}
	return service, nil
}
