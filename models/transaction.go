package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus представляет статус оплаты
type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "Pending"
	PaymentStatusPaid          PaymentStatus = "Paid"
	PaymentStatusPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentStatusOverdue       PaymentStatus = "Overdue"
	PaymentStatusUnpaid        PaymentStatus = "Unpaid"
)

// PaymentMethod представляет способ оплаты
type PaymentMethod string

const (
	PaymentMethodPIX        PaymentMethod = "PIX"
	PaymentMethodCreditCard PaymentMethod = "Credit Card"
	PaymentMethodDebitCard  PaymentMethod = "Debit Card"
	PaymentMethodCash       PaymentMethod = "Cash"
	PaymentMethodPlan       PaymentMethod = "Plan"
)

// ReferenceType представляет тип события, за которое выставлен счет
type ReferenceType string

const (
	ReferenceTypeAppointment ReferenceType = "Appointment"
	ReferenceTypeExam        ReferenceType = "Exam"
	ReferenceTypeOther       ReferenceType = "Other"
)

// Transaction представляет финансовую транзакцию клиники
type Transaction struct {
	ID            string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	ReferenceID   string          `gorm:"column:reference_id;type:varchar(36);index" json:"referenceId"`
	ReferenceType ReferenceType   `gorm:"column:reference_type;type:varchar(20);not null" json:"referenceType"`
	PatientID     string          `gorm:"column:patient_id;type:varchar(36);index" json:"patientId"`
	PatientName   string          `gorm:"column:patient_name;size:150" json:"patientName,omitempty"`
	Date          time.Time       `gorm:"column:date;not null;index" json:"date"`
	Description   string          `gorm:"column:description;size:255" json:"description"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(14,2);not null" json:"amount"`
	PaymentMethod PaymentMethod   `gorm:"column:payment_method;type:varchar(20)" json:"paymentMethod,omitempty"`
	Status        PaymentStatus   `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	DoctorID      *string         `gorm:"column:doctor_id;type:varchar(36);index" json:"doctorId,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"-"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}

// IsPaid сообщает, оплачена ли транзакция
func (t Transaction) IsPaid() bool {
	return t.Status == PaymentStatusPaid
}
