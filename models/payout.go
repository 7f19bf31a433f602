package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayoutStatus представляет статус выплаты врачу
type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "Pending"
	PayoutStatusPaid    PayoutStatus = "Paid"
)

// DoctorPayout представляет текущую выплату врачу.
// У каждого врача не больше одной записи.
type DoctorPayout struct {
	ID              string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	DoctorID        string          `gorm:"column:doctor_id;type:varchar(36);not null;uniqueIndex" json:"doctorId"`
	DoctorName      string          `gorm:"column:doctor_name;size:100" json:"doctorName"`
	PeriodStartDate time.Time       `gorm:"column:period_start_date;not null" json:"periodStartDate"`
	PeriodEndDate   time.Time       `gorm:"column:period_end_date;not null" json:"periodEndDate"`
	TotalBilled     decimal.Decimal `gorm:"column:total_billed;type:decimal(16,2);not null" json:"totalBilled"`
	PayoutRate      decimal.Decimal `gorm:"column:payout_rate;type:decimal(5,4);not null" json:"payoutRate"`
	PayoutAmount    decimal.Decimal `gorm:"column:payout_amount;type:decimal(22,6);not null" json:"payoutAmount"`
	Status          PayoutStatus    `gorm:"column:status;type:varchar(10);not null" json:"status"`
	PaidDate        *time.Time      `gorm:"column:paid_date" json:"paidDate,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"-"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"-"`
}

func (DoctorPayout) TableName() string {
	return "doctor_payouts"
}

func (p *DoctorPayout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}
