package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryCategory представляет категорию складской позиции
type InventoryCategory string

const (
	InventoryCategoryMedicalSupplies  InventoryCategory = "Medical Supplies"
	InventoryCategoryOfficeSupplies   InventoryCategory = "Office Supplies"
	InventoryCategoryCleaningSupplies InventoryCategory = "Cleaning Supplies"
	InventoryCategoryMedications      InventoryCategory = "Medications"
)

// InventoryItem представляет позицию на складе клиники
type InventoryItem struct {
	ID               string              `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name             string              `gorm:"column:name;not null;size:150" json:"name"`
	Category         InventoryCategory   `gorm:"column:category;type:varchar(30);not null" json:"category"`
	Quantity         int                 `gorm:"column:quantity;not null" json:"quantity"`
	ReorderLevel     int                 `gorm:"column:reorder_level;not null" json:"reorderLevel"`
	Unit             string              `gorm:"column:unit;size:20" json:"unit"`
	Supplier         string              `gorm:"column:supplier;size:150" json:"supplier,omitempty"`
	LastPurchaseDate *time.Time          `gorm:"column:last_purchase_date" json:"lastPurchaseDate,omitempty"`
	PurchasePrice    decimal.NullDecimal `gorm:"column:purchase_price;type:decimal(14,2)" json:"purchasePrice"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID()
	}
	return nil
}

// IsLowStock сообщает, что остаток достиг уровня дозаказа
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}
