package models

import "time"

type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	XP               int       `gorm:"default:0" json:"xp"`
	Level            int       `gorm:"default:1" json:"level"`
	GamesPlayed      int       `gorm:"default:0" json:"games_played"`
	AvgWPM           float64   `gorm:"default:0" json:"avg_wpm"`
	BestWPM          float64   `gorm:"default:0" json:"best_wpm"`
	BestAscendHeight float64   `gorm:"default:0" json:"best_ascend_height"`
	BestAscendTier   int       `gorm:"default:0" json:"best_ascend_tier"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
