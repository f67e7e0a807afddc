package models

import "time"

// AscendRun is one finished climb of a registered player.
type AscendRun struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Username   string    `json:"username"`
	Height     float64   `json:"height"`
	Tier       int       `json:"tier"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
