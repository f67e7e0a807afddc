// Package protocol defines the realtime wire format: a JSON envelope
// {"type": ..., "data": ...} carrying one tagged message per event.
package protocol

import "encoding/json"

// Inbound event names.
const (
	MsgJoin             = "join"
	MsgLeave            = "leave"
	MsgTyping           = "typing"
	MsgSentenceComplete = "sentence:complete"
)

// Outbound event names.
const (
	MsgJoined         = "joined"
	MsgCountdown      = "countdown"
	MsgStart          = "start"
	MsgSentence       = "sentence"
	MsgUpdate         = "update"
	MsgHP             = "hp"
	MsgFloor          = "floor"
	MsgTier           = "tier"
	MsgMomentum       = "momentum"
	MsgAttackReceived = "attack:received"
	MsgAttackSent     = "attack:sent"
	MsgKnockout       = "knockout"
	MsgEliminated     = "eliminated"
	MsgRunEnd         = "run:end"
)

// Message is implemented by every payload that can travel inside an Envelope.
type Message interface {
	MessageType() string
}

type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// AttackKind names one of the three sabotage effects.
type AttackKind string

const (
	AttackInject   AttackKind = "inject"
	AttackScramble AttackKind = "scramble"
	AttackChaos    AttackKind = "chaos"
)

// Range is a half-open [start, end) span of rune indices into a sentence.
type Range [2]int

func (r Range) Start() int { return r[0] }
func (r Range) End() int   { return r[1] }
func (r Range) Len() int   { return r[1] - r[0] }
