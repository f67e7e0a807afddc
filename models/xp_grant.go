package models

import (
	"time"

	"gorm.io/datatypes"
)

type XPGrant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Mode      string         `gorm:"size:16" json:"mode"`
	Amount    int            `json:"amount"`
	Meta      datatypes.JSON `json:"meta"` // wpm, won, duration
	CreatedAt time.Time      `json:"created_at"`
}
