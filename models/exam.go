package models

import (
	"time"

	"gorm.io/gorm"
)

// ExamStatus представляет статус исследования
type ExamStatus string

const (
	ExamStatusRequested          ExamStatus = "Requested"
	ExamStatusSampleCollected    ExamStatus = "Sample Collected"
	ExamStatusInProgress         ExamStatus = "In Progress"
	ExamStatusResultsReady       ExamStatus = "Results Ready"
	ExamStatusDeliveredToPatient ExamStatus = "Delivered to Patient"
	ExamStatusArchived           ExamStatus = "Archived"
)

// Exam представляет назначенное пациенту исследование
type Exam struct {
	ID                  string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	PatientID           string     `gorm:"column:patient_id;type:varchar(36);not null;index" json:"patientId"`
	PatientName         string     `gorm:"column:patient_name;size:150" json:"patientName,omitempty"`
	DoctorID            string     `gorm:"column:doctor_id;type:varchar(36);not null" json:"doctorId"`
	ExamTypeID          string     `gorm:"column:exam_type_id;type:varchar(36);not null" json:"examTypeId"`
	ExamTypeName        string     `gorm:"column:exam_type_name;size:150" json:"examTypeName,omitempty"`
	RequestDate         time.Time  `gorm:"column:request_date;not null" json:"requestDate"`
	ResultDate          *time.Time `gorm:"column:result_date" json:"resultDate,omitempty"`
	Status              ExamStatus `gorm:"column:status;type:varchar(30);not null" json:"status"`
	ResultSummary       string     `gorm:"column:result_summary;type:text" json:"resultSummary,omitempty"`
	ResultAttachmentURL string     `gorm:"column:result_attachment_url;size:255" json:"resultAttachmentUrl,omitempty"`
	LabName             string     `gorm:"column:lab_name;size:100" json:"labName,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

func (e *Exam) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Status == "" {
		e.Status = ExamStatusRequested
	}
	return nil
}
