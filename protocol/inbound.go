package protocol

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Typing is a client's progress report for the current sentence.
type Typing struct {
	Position    int     `json:"position"`
	Typed       string  `json:"typed"`
	WPM         float64 `json:"wpm"`
	Errors      int     `json:"errors"`
	Corrections int     `json:"corrections"`
}

// SentenceComplete reports that the client finished the current sentence.
type SentenceComplete struct {
	Typed       string  `json:"typed"`
	WPM         float64 `json:"wpm"`
	Corrections int     `json:"corrections"`
	Time        int64   `json:"time"`
}

func (Typing) MessageType() string           { return MsgTyping }
func (SentenceComplete) MessageType() string { return MsgSentenceComplete }

// ParseTyping reads a typing payload field by field. Missing or malformed
// fields come back as zero values instead of failing the whole message.
func ParseTyping(raw json.RawMessage) Typing {
	fields := decodeFields(raw)
	return Typing{
		Position:    intField(fields, "position"),
		Typed:       stringField(fields, "typed"),
		WPM:         floatField(fields, "wpm"),
		Errors:      intField(fields, "errors"),
		Corrections: intField(fields, "corrections"),
	}
}

// ParseSentenceComplete is the lenient decoder for sentence:complete.
func ParseSentenceComplete(raw json.RawMessage) SentenceComplete {
	fields := decodeFields(raw)
	return SentenceComplete{
		Typed:       stringField(fields, "typed"),
		WPM:         floatField(fields, "wpm"),
		Corrections: intField(fields, "corrections"),
		Time:        int64(floatField(fields, "time")),
	}
}

func decodeFields(raw json.RawMessage) map[string]any {
	var data map[string]any
	if len(raw) == 0 {
		return data
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return data
}

func floatField(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

func intField(data map[string]any, key string) int {
	f := floatField(data, key)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}
