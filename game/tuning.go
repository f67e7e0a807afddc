package game

import "time"

// Tuning holds every balance knob of the climbing race.
type Tuning struct {
	TickInterval      time.Duration
	CountdownSeconds  int
	EmptyLobbyTimeout time.Duration

	MaxHP               float64
	ComboThreshold      int
	ErrorHPPenalty      float64 // per new error or correction
	CompletionHPRestore float64
	IdleThreshold       time.Duration
	IdleHPDecay         float64 // hp per second
	HeightRate          float64 // height per second per momentum level
	ChaosSpan           int
	FillerWords         []string

	TierThresholds     []float64
	MomentumThresholds []float64
	MomentumDecayBase  float64
	MomentumDecayStep  float64
	MomentumDecayPause time.Duration
	MomentumReseed     float64 // fraction of the lower level's threshold kept on decay

	FloorBaseSpeed    float64
	FloorHeightFactor float64
	FloorMaxSpeed     float64 // 0 leaves the floor uncapped
	FloorGracePeriod  time.Duration

	KnockoutHPBonus     float64
	KnockoutHeightBonus float64
	KnockoutWindow      time.Duration

	BotMin          int
	BotMax          int
	BotRetireAtReal int
	BotWPMMin       int
	BotWPMMax       int
	BotErrorChance  float64
	BotWPMJitter    int
	BotNames        []string
}

func DefaultTuning() Tuning {
	return Tuning{
		TickInterval:      200 * time.Millisecond,
		CountdownSeconds:  3,
		EmptyLobbyTimeout: 30 * time.Second,

		MaxHP:               100,
		ComboThreshold:      20,
		ErrorHPPenalty:      2,
		CompletionHPRestore: 20,
		IdleThreshold:       5 * time.Second,
		IdleHPDecay:         5,
		HeightRate:          0.25,
		ChaosSpan:           10,
		FillerWords: []string{
			"the", "and", "but", "from", "with", "over", "just",
			"also", "very", "each", "more", "some", "only", "into",
		},

		TierThresholds:     []float64{0, 50, 150, 300, 450, 650, 850, 1100, 1350, 1650},
		MomentumThresholds: []float64{20, 45, 75, 110, 150, 200, 260, 330, 410, 500},
		MomentumDecayBase:  0.3,
		MomentumDecayStep:  0.15,
		MomentumDecayPause: 5 * time.Second,
		MomentumReseed:     0.5,

		FloorBaseSpeed:    0.5,
		FloorHeightFactor: 0.015,
		FloorGracePeriod:  10 * time.Second,

		KnockoutHPBonus:     25,
		KnockoutHeightBonus: 15,
		KnockoutWindow:      10 * time.Second,

		BotMin:          10,
		BotMax:          20,
		BotRetireAtReal: 10,
		BotWPMMin:       30,
		BotWPMMax:       95,
		BotErrorChance:  0.03,
		BotWPMJitter:    5,
		BotNames:        defaultBotNames,
	}
}

// MaxMomentum is the highest momentum level.
func (t Tuning) MaxMomentum() int { return len(t.MomentumThresholds) }

// MaxTier is the highest tier.
func (t Tuning) MaxTier() int { return len(t.TierThresholds) }

var defaultBotNames = []string{
	"QuickFingers", "KeyCrusher", "TypeStorm", "WordRunner", "SwiftKeys",
	"ClickClack", "TurboTyper", "NimbleNibs", "InkSlinger", "BlazeType",
	"RapidRex", "KeyNinja", "LetterLeap", "FlashFingers", "GhostWriter",
	"ByteBard", "QwertyQueen", "SpaceBarSam", "ShiftLord", "CapsLockCarl",
	"TabTamer", "EnterElla", "HomeRowHero", "DvorakDan", "ColemakCole",
	"PunctuationPete", "SyntaxSally", "VerbVandal", "NounNomad", "ScribeSpark",
	"DraftDash", "ProsePilot", "ComboKing", "MomentumMo", "ClimbCat",
	"SummitSue", "LedgeLeo", "PeakPiper", "CragCrafter", "RidgeRider",
}
