package game

import (
	"context"
	"time"

	"github.com/Bold014/typeio-backend/protocol"
)

// ModeAscend tags experience grants coming from this game mode.
const ModeAscend = "ascend"

type Sentence struct {
	Text   string
	Source string
}

// SentenceProvider hands out sentences sized for a tier.
type SentenceProvider interface {
	SentenceForTier(tier int) Sentence
}

// Progression persists finished runs. Both calls run off the lobby lock and
// their failures never affect gameplay.
type Progression interface {
	GrantExperience(ctx context.Context, userID uint, won bool, wpm float64, mode string, duration time.Duration) (*protocol.XPGain, error)
	RecordRun(ctx context.Context, userID uint, username string, height float64, tier int, duration time.Duration) error
}
