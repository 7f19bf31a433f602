package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItemDTO представляет данные складской позиции
type InventoryItemDTO struct {
	Name             string                   `json:"name" validate:"required,max=150"`
	Category         models.InventoryCategory `json:"category" validate:"required,oneof='Medical Supplies' 'Office Supplies' 'Cleaning Supplies' Medications"`
	Quantity         int                      `json:"quantity" validate:"gte=0"`
	ReorderLevel     int                      `json:"reorderLevel" validate:"gte=0"`
	Unit             string                   `json:"unit" validate:"max=20"`
	Supplier         string                   `json:"supplier" validate:"max=150"`
	LastPurchaseDate *time.Time               `json:"lastPurchaseDate"`
	PurchasePrice    decimal.NullDecimal      `json:"purchasePrice" validate:"omitempty,gte=0"`
}

// InventoryService предоставляет методы для работы со складом
type InventoryService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewInventoryService создает новый экземпляр InventoryService
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{
		db:        db,
		validator: newValidator(),
	}
}

// List возвращает позиции склада с поиском по названию и поставщику
func (s *InventoryService) List(ctx context.Context, search string, category models.InventoryCategory) ([]models.InventoryItem, error) {
	query := s.db.WithContext(ctx).Order("name, id")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if strings.TrimSpace(search) != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(supplier) LIKE ?", pattern, pattern)
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении склада: %w", err)
	}
	return items, nil
}

// LowStock возвращает позиции, остаток которых не выше уровня дозаказа
func (s *InventoryService) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).
		Where("quantity <= reorder_level").
		Order("quantity, name").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("ошибка при получении позиций для дозаказа: %w", err)
	}
	return items, nil
}

// Get возвращает позицию по ID
func (s *InventoryService) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("позиция %s: %w", id, notFoundOr(err))
	}
	return &item, nil
}

// Create добавляет позицию на склад
func (s *InventoryService) Create(ctx context.Context, dto InventoryItemDTO) (*models.InventoryItem, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	item := &models.InventoryItem{}
	applyInventoryDTO(item, dto)
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("ошибка при создании позиции: %w", err)
	}
	return item, nil
}

// Update изменяет позицию склада
func (s *InventoryService) Update(ctx context.Context, id string, dto InventoryItemDTO) (*models.InventoryItem, error) {
	if err := validateStruct(s.validator, dto); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInventoryDTO(item, dto)
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("ошибка при обновлении позиции: %w", err)
	}
	return item, nil
}

func applyInventoryDTO(item *models.InventoryItem, dto InventoryItemDTO) {
	item.Name = strings.TrimSpace(dto.Name)
	item.Category = dto.Category
	item.Quantity = dto.Quantity
	item.ReorderLevel = dto.ReorderLevel
	item.Unit = dto.Unit
	item.Supplier = dto.Supplier
	item.LastPurchaseDate = dto.LastPurchaseDate
	item.PurchasePrice = dto.PurchasePrice
}
