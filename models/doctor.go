package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultPayoutShare доля врача, если она не задана в настройках
var DefaultPayoutShare = decimal.New(5, -1)

// Doctor представляет врача клиники
type Doctor struct {
	ID          string              `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string              `gorm:"column:name;not null;size:100" json:"name"`
	Specialty   string              `gorm:"column:specialty;size:100" json:"specialty"`
	PayoutShare decimal.NullDecimal `gorm:"column:payout_share;type:decimal(5,4)" json:"payoutShare"`
	Email       string              `gorm:"column:email;size:100" json:"email,omitempty"`
	CreatedAt   time.Time           `gorm:"column:created_at" json:"-"`
	UpdatedAt   time.Time           `gorm:"column:updated_at" json:"-"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = newID()
	}
	return nil
}

// Share возвращает долю врача в выплатах, по умолчанию 0.5
func (d Doctor) Share() decimal.Decimal {
	if d.PayoutShare.Valid {
		return d.PayoutShare.Decimal
	}
	return DefaultPayoutShare
}
