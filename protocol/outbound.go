package protocol

type ScoreboardEntry struct {
	Username    string  `json:"username"`
	Height      float64 `json:"height"`
	Tier        int     `json:"tier"`
	HP          int     `json:"hp"`
	Momentum    int     `json:"momentum"`
	Eliminated  bool    `json:"eliminated"`
	WPM         int     `json:"wpm"`
	FloorHeight float64 `json:"floorHeight"`
}

type Joined struct {
	Scoreboard []ScoreboardEntry `json:"scoreboard"`
}

type Countdown struct {
	Seconds int `json:"seconds"`
}

// RunState is the common body of start and sentence messages.
type RunState struct {
	Sentence string  `json:"sentence"`
	Source   string  `json:"source"`
	Tier     int     `json:"tier"`
	Height   float64 `json:"height"`
	HP       int     `json:"hp"`
	Momentum int     `json:"momentum"`
}

type Start struct {
	StartTime int64 `json:"startTime"`
	RunState
}

type SentenceAssigned struct {
	RunState
}

type ScoreboardUpdate struct {
	Scoreboard []ScoreboardEntry `json:"scoreboard"`
}

type HPUpdate struct {
	HP int `json:"hp"`
}

type FloorUpdate struct {
	FloorHeight float64 `json:"floorHeight"`
	Height      float64 `json:"height"`
	Gap         float64 `json:"gap"`
}

type TierUp struct {
	Tier   int     `json:"tier"`
	Height float64 `json:"height"`
}

type MomentumUpdate struct {
	Momentum int `json:"momentum"`
}

type AttackReceived struct {
	Type            AttackKind `json:"type"`
	UpdatedSentence string     `json:"updatedSentence"`
	Word            string     `json:"word,omitempty"`
	InsertPos       *int       `json:"insertPos,omitempty"`
	Range           *Range     `json:"range,omitempty"`
	InjectedRanges  []Range    `json:"injectedRanges"`
	HP              int        `json:"hp"`
}

type AttackSent struct {
	Type   AttackKind `json:"type"`
	Target string     `json:"target"`
}

type Knockout struct {
	Victim string  `json:"victim"`
	HP     int     `json:"hp"`
	Height float64 `json:"height"`
}

type Eliminated struct {
	Username     string  `json:"username"`
	KilledBy     *string `json:"killedBy"`
	Height       float64 `json:"height"`
	Tier         int     `json:"tier"`
	Disconnected bool    `json:"disconnected,omitempty"`
}

// XPGain is the experience grant reported back by the persistence layer.
type XPGain struct {
	XPGained       int  `json:"xpGained"`
	NewXP          int  `json:"newXp"`
	OldLevel       int  `json:"oldLevel"`
	NewLevel       int  `json:"newLevel"`
	IsPersonalBest bool `json:"isPersonalBest"`
}

type RunEnd struct {
	Height    float64 `json:"height"`
	Tier      int     `json:"tier"`
	Duration  int64   `json:"duration"`
	Knockouts int     `json:"knockouts"`
	XPGain    *XPGain `json:"xpGain"`
}

func (Joined) MessageType() string           { return MsgJoined }
func (Countdown) MessageType() string        { return MsgCountdown }
func (Start) MessageType() string            { return MsgStart }
func (SentenceAssigned) MessageType() string { return MsgSentence }
func (ScoreboardUpdate) MessageType() string { return MsgUpdate }
func (HPUpdate) MessageType() string         { return MsgHP }
func (FloorUpdate) MessageType() string      { return MsgFloor }
func (TierUp) MessageType() string           { return MsgTier }
func (MomentumUpdate) MessageType() string   { return MsgMomentum }
func (AttackReceived) MessageType() string   { return MsgAttackReceived }
func (AttackSent) MessageType() string       { return MsgAttackSent }
func (Knockout) MessageType() string         { return MsgKnockout }
func (Eliminated) MessageType() string       { return MsgEliminated }
func (RunEnd) MessageType() string           { return MsgRunEnd }
