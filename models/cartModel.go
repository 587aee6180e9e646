package models

import (
	"time"

	"gorm.io/datatypes"
)

// CartSnapshot is the persisted form of one session's cart state.
type CartSnapshot struct {
	Key       string         `gorm:"column:cart_key;primaryKey;size:191"`
	State     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}
