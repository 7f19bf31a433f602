package models

import (
	"time"

	"gorm.io/gorm"
)

// Patient представляет карточку пациента
type Patient struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null;size:150;index" json:"name"`
	DateOfBirth    string    `gorm:"column:date_of_birth;size:10" json:"dateOfBirth"` // YYYY-MM-DD
	Phone          string    `gorm:"column:phone;size:30" json:"phone"`
	Email          string    `gorm:"column:email;size:100" json:"email"`
	Address        string    `gorm:"column:address;size:255" json:"address"`
	AvatarURL      string    `gorm:"column:avatar_url;size:255" json:"avatarUrl,omitempty"`
	MedicalHistory string    `gorm:"column:medical_history;type:text" json:"medicalHistory,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}
