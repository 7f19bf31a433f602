package services

import (
	"context"
	"fmt"
	"time"

	"clinic/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// AppointmentDTO представляет данные записи на прием
type AppointmentDTO struct {
	PatientID        string                   `json:"patientId" validate:"required"`
	DoctorID         string                   `json:"doctorId" validate:"required"`
	ServiceID        string                   `json:"serviceId" validate:"required"`
	DateTime         time.Time                `json:"dateTime" validate:"required"`
	DurationMinutes  int                      `json:"durationMinutes" validate:"gte=0,max=1440"`
	Status           models.AppointmentStatus `json:"status" validate:"omitempty,oneof=Scheduled Confirmed Completed Cancelled 'No Show' 'Pending Confirmation'"`
	Notes            string                   `json:"notes"`
	ConfirmationSent bool                     `json:"confirmationSent"`
}

// AppointmentFilter параметры выборки записей
type AppointmentFilter struct {
	Status   models.AppointmentStatus
	DoctorID string
	From     *time.Time
	To       *time.Time
}

// AppointmentService предоставляет методы для работы с записями на прием
type AppointmentService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewAppointmentService создает новый экземпляр AppointmentService
func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{
		db:        db,
		validator: newValidator(),
	}
}

// List возвращает записи, отсортированные по дате приема
func (s *AppointmentService) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	query := s.db.WithContext(ctx).Order("date_time, id")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DoctorID != "" {
		query = query.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.From != nil {
		query = query.Where("date_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date_time < ?", *filter.To)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении записей: %w", err)
	}
	return appointments, nil
}

// Get возвращает запись по ID
func (s *AppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.db.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("запись %s: %w", id, notFoundOr(err))
	}
	return &appointment, nil
}

// Create создает запись на прием
func (s *AppointmentService) Create(ctx context.Context, dto AppointmentDTO) (*models.Appointment, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	appointment := &models.Appointment{Status: models.AppointmentStatusScheduled}
	if err := s.apply(ctx, appointment, dto); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return nil, fmt.Errorf("ошибка при создании записи: %w", err)
	}
	return appointment, nil
}

// Update изменяет запись на прием
func (s *AppointmentService) Update(ctx context.Context, id string, dto AppointmentDTO) (*models.Appointment, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, appointment, dto); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(appointment).Error; err != nil {
		return nil, fmt.Errorf("ошибка при обновлении записи: %w", err)
	}
	return appointment, nil
}

// apply переносит DTO в модель и заполняет денормализованные имена
func (s *AppointmentService) apply(ctx context.Context, a *models.Appointment, dto AppointmentDTO) error {
	db := s.db.WithContext(ctx)

	var patient models.Patient
	if err := db.First(&patient, "id = ?", dto.PatientID).Error; err != nil {
		return fmt.Errorf("%w: пациент %s: %v", ErrValidation, dto.PatientID, notFoundOr(err))
	}
	var doctor models.Doctor
	if err := db.First(&doctor, "id = ?", dto.DoctorID).Error; err != nil {
		return fmt.Errorf("%w: врач %s: %v", ErrValidation, dto.DoctorID, notFoundOr(err))
	}
	var service models.Service
	if err := db.First(&service, "id = ?", dto.ServiceID).Error; err != nil {
		return fmt.Errorf("%w: услуга %s: %v", ErrValidation, dto.ServiceID, notFoundOr(err))
	}

	a.PatientID = patient.ID
	a.PatientName = patient.Name
	a.DoctorID = doctor.ID
	a.DoctorName = doctor.Name
	a.ServiceID = service.ID
	a.ServiceName = service.Name
	a.DateTime = dto.DateTime
	a.DurationMinutes = dto.DurationMinutes
	if a.DurationMinutes == 0 {
		a.DurationMinutes = models.DefaultAppointmentDuration
	}
	if dto.Status != "" {
		a.Status = dto.Status
	}
	a.Notes = dto.Notes
	a.ConfirmationSent = dto.ConfirmationSent
	return nil
}
