package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceCategory представляет категорию услуги в прайс-листе
type ServiceCategory string

const (
	ServiceCategoryConsultation ServiceCategory = "Consultation"
	ServiceCategoryExam         ServiceCategory = "Exam"
	ServiceCategoryProcedure    ServiceCategory = "Procedure"
)

// Service представляет услугу из прайс-листа клиники
type Service struct {
	ID       string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name     string          `gorm:"column:name;not null;size:150" json:"name"`
	Price    decimal.Decimal `gorm:"column:price;type:decimal(14,2);not null" json:"price"`
	Category ServiceCategory `gorm:"column:category;type:varchar(20);not null" json:"category"`
}

func (Service) TableName() string {
	return "services"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = newID()
	}
	return nil
}
