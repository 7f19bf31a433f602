package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound сущность не найдена
	ErrNotFound = errors.New("не найдено")
	// ErrValidation некорректные входные данные
	ErrValidation = errors.New("ошибка валидации")
	// ErrConflict операция противоречит текущему состоянию
	ErrConflict = errors.New("конфликт")
	// ErrInvalidCredentials неверный email или пароль
	ErrInvalidCredentials = errors.New("неверный email или пароль")
)

// notFoundOr заменяет gorm.ErrRecordNotFound на ErrNotFound
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func newID() string {
	return uuid.NewString()
}
