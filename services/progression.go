package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Bold014/typeio-backend/models"
	"github.com/Bold014/typeio-backend/protocol"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

// ProgressionStore persists experience and finished runs in Postgres.
type ProgressionStore struct {
	db *gorm.DB
}

func NewProgressionStore(db *gorm.DB) *ProgressionStore {
	return &ProgressionStore{db: db}
}

// ExperienceFor is the experience awarded for one finished run.
func ExperienceFor(won bool, wpm float64, mode string, d time.Duration) int {
	if wpm < 0 || math.IsNaN(wpm) {
		wpm = 0
	}
	xp := 10 + int(math.Round(wpm/2))

	minutes := int(d / time.Minute)
	if minutes > 10 {
		minutes = 10
	}
	xp += minutes * 5

	if won {
		xp += 25
	}
	if mode == "ranked" {
		xp = xp * 3 / 2
	}
	return xp
}

func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

type grantMeta struct {
	WPM        float64 `json:"wpm"`
	Won        bool    `json:"won"`
	DurationMs int64   `json:"duration_ms"`
}

func (p *ProgressionStore) GrantExperience(ctx context.Context, userID uint, won bool, wpm float64, mode string, d time.Duration) (*protocol.XPGain, error) {
	var gain *protocol.XPGain
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		gained := ExperienceFor(won, wpm, mode, d)
		oldLevel := LevelForXP(user.XP)
		pb := wpm > user.BestWPM

		user.XP += gained
		user.Level = LevelForXP(user.XP)
		user.AvgWPM = (user.AvgWPM*float64(user.GamesPlayed) + wpm) / float64(user.GamesPlayed+1)
		user.GamesPlayed++
		if pb {
			user.BestWPM = wpm
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		meta, err := json.Marshal(grantMeta{WPM: wpm, Won: won, DurationMs: d.Milliseconds()})
		if err != nil {
			return err
		}
		grant := models.XPGrant{
			UserID: userID,
			Mode:   mode,
			Amount: gained,
			Meta:   datatypes.JSON(meta),
		}
		if err := tx.Create(&grant).Error; err != nil {
			return err
		}

		gain = &protocol.XPGain{
			XPGained:       gained,
			NewXP:          user.XP,
			OldLevel:       oldLevel,
			NewLevel:       user.Level,
			IsPersonalBest: pb,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("grant experience to user %d: %w", userID, err)
	}
	return gain, nil
}

func (p *ProgressionStore) RecordRun(ctx context.Context, userID uint, username string, height float64, tier int, d time.Duration) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run := models.AscendRun{
			UserID:     userID,
			Username:   username,
			Height:     height,
			Tier:       tier,
			DurationMs: d.Milliseconds(),
		}
		if err := tx.Create(&run).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if height <= user.BestAscendHeight {
			return nil
		}
		return tx.Model(&user).Updates(map[string]any{
			"best_ascend_height": height,
			"best_ascend_tier":   tier,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("record run for user %d: %w", userID, err)
	}
	return nil
}

func (p *ProgressionStore) FindUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := p.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrUserNotFound
	}
	return user, err
}
