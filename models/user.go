package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Роли пользователей
const (
	RoleAdmin        = "ADMIN"
	RoleDoctor       = "DOCTOR"
	RoleReceptionist = "RECEPTIONIST"
)

// User представляет пользователя системы
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;not null;size:100" json:"name"`
	Email     string    `gorm:"column:email;uniqueIndex;not null;size:100" json:"email"`
	Password  string    `gorm:"column:password;not null;size:100" json:"-"`
	Role      string    `gorm:"column:role;not null;size:20;default:RECEPTIONIST" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate хук для валидации перед созданием
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if len(u.Name) < 1 || len(u.Name) > 100 {
		return errors.New("name must be between 1 and 100 characters")
	}
	if len(u.Email) < 3 || len(u.Email) > 100 {
		return errors.New("email must be between 3 and 100 characters")
	}
	if u.Role == "" {
		u.Role = RoleReceptionist
	}
	return nil
}
