package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Денежные суммы уходят в JSON числами, как их ожидает клиент
	decimal.MarshalJSONWithoutQuotes = true
}

// newID генерирует идентификатор сущности клиники
func newID() string {
	return uuid.NewString()
}
