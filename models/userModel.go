package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "user"
)

type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name      string `gorm:"size:255" json:"name"`
	Password  string `gorm:"size:255;not null" json:"-"`
	Role      string `gorm:"size:32;not null;default:user" json:"role"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LoginData struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
