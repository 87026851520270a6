package models

import "time"

// User represents a customer account.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password  string    `json:"password,omitempty" gorm:"type:varchar(255);not null" validate:"required,min=6"` // cleared before responses
	FirstName string    `json:"first_name" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	LastName  string    `json:"last_name" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Phone     string    `json:"phone" gorm:"type:varchar(32)" validate:"omitempty,max=32"`
	Address   string    `json:"address" validate:"omitempty,max=500"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
