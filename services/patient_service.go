package services

import (
	"context"
	"fmt"
	"strings"

	"clinic/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// PatientDTO представляет данные пациента
type PatientDTO struct {
	Name           string `json:"name" validate:"required,max=150"`
	DateOfBirth    string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Phone          string `json:"phone" validate:"max=30"`
	Email          string `json:"email" validate:"omitempty,email"`
	Address        string `json:"address" validate:"max=255"`
	AvatarURL      string `json:"avatarUrl" validate:"omitempty,url"`
	MedicalHistory string `json:"medicalHistory"`
}

// PatientService предоставляет методы для работы с пациентами
type PatientService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewPatientService создает новый экземпляр PatientService
func NewPatientService(db *gorm.DB) *PatientService {
	return &PatientService{
		db:        db,
		validator: newValidator(),
	}
}

// likePattern строит шаблон для регистронезависимого поиска
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// List возвращает пациентов, поиск по имени, email или телефону
func (s *PatientService) List(ctx context.Context, search string) ([]models.Patient, error) {
	query := s.db.WithContext(ctx).Order("name, id")
	if strings.TrimSpace(search) != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", pattern, pattern, pattern)
	}

	var patients []models.Patient
	if err := query.Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении пациентов: %w", err)
	}
	return patients, nil
}

// Get возвращает пациента по ID
func (s *PatientService) Get(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	if err := s.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("пациент %s: %w", id, notFoundOr(err))
	}
	return &patient, nil
}

// Create создает карточку пациента
func (s *PatientService) Create(ctx context.Context, dto PatientDTO) (*models.Patient, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	patient := &models.Patient{}
	applyPatientDTO(patient, dto)
	if err := s.db.WithContext(ctx).Create(patient).Error; err != nil {
		return nil, fmt.Errorf("ошибка при создании пациента: %w", err)
	}
	return patient, nil
}

// Update изменяет карточку пациента
func (s *PatientService) Update(ctx context.Context, id string, dto PatientDTO) (*models.Patient, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyPatientDTO(patient, dto)
	if err := s.db.WithContext(ctx).Save(patient).Error; err != nil {
		return nil, fmt.Errorf("ошибка при обновлении пациента: %w", err)
	}
	return patient, nil
}

func applyPatientDTO(p *models.Patient, dto PatientDTO) {
	p.Name = strings.TrimSpace(dto.Name)
	p.DateOfBirth = dto.DateOfBirth
	p.Phone = dto.Phone
	p.Email = dto.Email
	p.Address = dto.Address
	p.AvatarURL = dto.AvatarURL
	p.MedicalHistory = dto.MedicalHistory
}
