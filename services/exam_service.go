package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ExamDTO представляет данные исследования
type ExamDTO struct {
	PatientID           string            `json:"patientId" validate:"required"`
	DoctorID            string            `json:"doctorId" validate:"required"`
	ExamTypeID          string            `json:"examTypeId" validate:"required"`
	RequestDate         time.Time         `json:"requestDate" validate:"required"`
	ResultDate          *time.Time        `json:"resultDate"`
	Status              models.ExamStatus `json:"status" validate:"omitempty,oneof=Requested 'Sample Collected' 'In Progress' 'Results Ready' 'Delivered to Patient' Archived"`
	ResultSummary       string            `json:"resultSummary"`
	ResultAttachmentURL string            `json:"resultAttachmentUrl" validate:"max=255"`
	LabName             string            `json:"labName" validate:"max=100"`
}

// ExamFilter параметры выборки исследований
type ExamFilter struct {
	Search string
	Status models.ExamStatus
}

// ExamService предоставляет методы для работы с исследованиями
type ExamService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewExamService создает новый экземпляр ExamService
func NewExamService(db *gorm.DB) *ExamService {
	return &ExamService{
		db:        db,
		validator: newValidator(),
	}
}

// List возвращает исследования, новые первыми
func (s *ExamService) List(ctx context.Context, filter ExamFilter) ([]models.Exam, error) {
	query := s.db.WithContext(ctx).Order("request_date DESC, id")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(patient_name) LIKE ? OR LOWER(exam_type_name) LIKE ? OR LOWER(lab_name) LIKE ?", pattern, pattern, pattern)
	}

	var exams []models.Exam
	if err := query.Find(&exams).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении исследований: %w", err)
	}
	return exams, nil
}

// Get возвращает исследование по ID
func (s *ExamService) Get(ctx context.Context, id string) (*models.Exam, error) {
	var exam models.Exam
	if err := s.db.WithContext(ctx).First(&exam, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("исследование %s: %w", id, notFoundOr(err))
	}
	return &exam, nil
}

// Create назначает исследование
func (s *ExamService) Create(ctx context.Context, dto ExamDTO) (*models.Exam, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	exam := &models.Exam{Status: models.ExamStatusRequested}
	if err := s.apply(ctx, exam, dto); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(exam).Error; err != nil {
		return nil, fmt.Errorf("ошибка при создании исследования: %w", err)
	}
	return exam, nil
}

// Update изменяет исследование
func (s *ExamService) Update(ctx context.Context, id string, dto ExamDTO) (*models.Exam, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, exam, dto); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(exam).Error; err != nil {
		return nil, fmt.Errorf("ошибка при обновлении исследования: %w", err)
	}
	return exam, nil
}

func (s *ExamService) apply(ctx context.Context, e *models.Exam, dto ExamDTO) error {
	db := s.db.WithContext(ctx)

	var patient models.Patient
	if err := db.First(&patient, "id = ?", dto.PatientID).Error; err != nil {
		return fmt.Errorf("%w: пациент %s: %v", ErrValidation, dto.PatientID, notFoundOr(err))
	}
	var examType models.Service
	if err := db.First(&examType, "id = ?", dto.ExamTypeID).Error; err != nil {
		return fmt.Errorf("%w: тип исследования %s: %v", ErrValidation, dto.ExamTypeID, notFoundOr(err))
	}

	e.PatientID = patient.ID
	e.PatientName = patient.Name
	e.DoctorID = dto.DoctorID
	e.ExamTypeID = examType.ID
	e.ExamTypeName = examType.Name
	e.RequestDate = dto.RequestDate
	e.ResultDate = dto.ResultDate
	if dto.Status != "" {
		e.Status = dto.Status
	}
	e.ResultSummary = dto.ResultSummary
	e.ResultAttachmentURL = dto.ResultAttachmentURL
	e.LabName = dto.LabName
	return nil
}
