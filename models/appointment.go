package models

import (
	"time"

	"gorm.io/gorm"
)

// AppointmentStatus представляет статус записи на прием
type AppointmentStatus string

const (
	AppointmentStatusScheduled           AppointmentStatus = "Scheduled"
	AppointmentStatusConfirmed           AppointmentStatus = "Confirmed"
	AppointmentStatusCompleted           AppointmentStatus = "Completed"
	AppointmentStatusCancelled           AppointmentStatus = "Cancelled"
	AppointmentStatusNoShow              AppointmentStatus = "No Show"
	AppointmentStatusPendingConfirmation AppointmentStatus = "Pending Confirmation"
)

// DefaultAppointmentDuration длительность приема по умолчанию, в минутах
const DefaultAppointmentDuration = 30

// Appointment представляет запись пациента на прием
type Appointment struct {
	ID               string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	PatientID        string            `gorm:"column:patient_id;type:varchar(36);not null;index" json:"patientId"`
	PatientName      string            `gorm:"column:patient_name;size:150" json:"patientName,omitempty"`
	DoctorID         string            `gorm:"column:doctor_id;type:varchar(36);not null;index" json:"doctorId"`
	DoctorName       string            `gorm:"column:doctor_name;size:100" json:"doctorName,omitempty"`
	ServiceID        string            `gorm:"column:service_id;type:varchar(36);not null" json:"serviceId"`
	ServiceName      string            `gorm:"column:service_name;size:150" json:"serviceName,omitempty"`
	DateTime         time.Time         `gorm:"column:date_time;not null;index" json:"dateTime"`
	DurationMinutes  int               `gorm:"column:duration_minutes;not null;default:30" json:"durationMinutes"`
	Status           AppointmentStatus `gorm:"column:status;type:varchar(30);not null" json:"status"`
	Notes            string            `gorm:"column:notes;type:text" json:"notes,omitempty"`
	ConfirmationSent bool              `gorm:"column:confirmation_sent;not null;default:false" json:"confirmationSent"`
	PaymentStatus    PaymentStatus     `gorm:"column:payment_status;type:varchar(20);not null;default:'Pending'" json:"paymentStatus"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.DurationMinutes == 0 {
		a.DurationMinutes = DefaultAppointmentDuration
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentStatusPending
	}
	return nil
}
