package game

import (
	"math/rand"
	"sort"
	"unicode"

	"github.com/Bold014/typeio-backend/protocol"
)

// attackResult describes how a target's sentence was sabotaged.
type attackResult struct {
	kind      protocol.AttackKind
	word      string
	insertPos *int
	span      *protocol.Range
}

// pickAttackKind alternates inject on odd charges with a coin flip between
// scramble and chaos on even ones.
func pickAttackKind(attackCount int, rng *rand.Rand) protocol.AttackKind {
	if attackCount%2 == 1 {
		return protocol.AttackInject
	}
	if rng.Float64() < 0.5 {
		return protocol.AttackScramble
	}
	return protocol.AttackChaos
}

// applyAttack mutates the target sentence. Scramble and chaos fall back to
// inject when the text ahead of the cursor cannot take them.
func applyAttack(s *Session, kind protocol.AttackKind, t Tuning, rng *rand.Rand) attackResult {
	switch kind {
	case protocol.AttackScramble:
		if span, ok := scrambleNextWord(s.sentence, s.combo.LastPosition, rng); ok {
			return attackResult{kind: kind, span: &span}
		}
	case protocol.AttackChaos:
		if span, ok := chaosSpan(s.sentence, s.combo.LastPosition, t.ChaosSpan, rng); ok {
			return attackResult{kind: kind, span: &span}
		}
	}
	word := t.FillerWords[rng.Intn(len(t.FillerWords))]
	var pos int
	s.sentence, s.injected, pos = injectWord(s.sentence, s.injected, s.combo.LastPosition, word)
	return attackResult{kind: protocol.AttackInject, word: word, insertPos: &pos}
}

// injectWord inserts " word" at the first space at or after the cursor (or at
// the end) and re-bases existing injected ranges around it.
func injectWord(sentence []rune, ranges []protocol.Range, cursor int, word string) ([]rune, []protocol.Range, int) {
	at := indexSpace(sentence, clampCursor(cursor, len(sentence)))
	if at < 0 {
		at = len(sentence)
	}
	insertion := []rune(" " + word)
	n := len(insertion)

	out := make([]rune, 0, len(sentence)+n)
	out = append(out, sentence[:at]...)
	out = append(out, insertion...)
	out = append(out, sentence[at:]...)

	rebased := make([]protocol.Range, 0, len(ranges)+1)
	for _, r := range ranges {
		switch {
		case r.Start() >= at:
			r = protocol.Range{r.Start() + n, r.End() + n}
		case r.End() > at:
			r = protocol.Range{r.Start(), r.End() + n}
		}
		rebased = append(rebased, r)
	}
	rebased = append(rebased, protocol.Range{at, at + n})
	sortRanges(rebased)
	return out, rebased, at
}

// scrambleNextWord swaps one adjacent letter pair inside the next whole word
// after the cursor. Words shorter than three letters are left alone.
func scrambleNextWord(sentence []rune, cursor int, rng *rand.Rand) (protocol.Range, bool) {
	start, end := nextWord(sentence, cursor)
	if end-start < 3 {
		return protocol.Range{}, false
	}
	i := start + rng.Intn(end-start-1)
	sentence[i], sentence[i+1] = sentence[i+1], sentence[i]
	return protocol.Range{start, end}, true
}

// chaosSpan randomizes letter case over up to span runes from the next word.
func chaosSpan(sentence []rune, cursor, span int, rng *rand.Rand) (protocol.Range, bool) {
	start, _ := nextWord(sentence, cursor)
	end := start + span
	if end > len(sentence) {
		end = len(sentence)
	}
	if start >= end {
		return protocol.Range{}, false
	}
	for i := start; i < end; i++ {
		if sentence[i] == ' ' {
			continue
		}
		if rng.Float64() < 0.5 {
			sentence[i] = unicode.ToUpper(sentence[i])
		} else {
			sentence[i] = unicode.ToLower(sentence[i])
		}
	}
	return protocol.Range{start, end}, true
}

// nextWord finds the word that starts after the first space at or past the
// cursor. Without such a space it starts at the cursor.
func nextWord(sentence []rune, cursor int) (int, int) {
	cursor = clampCursor(cursor, len(sentence))
	start := cursor
	if sp := indexSpace(sentence, cursor); sp >= 0 {
		start = sp + 1
	}
	end := indexSpace(sentence, start)
	if end < 0 {
		end = len(sentence)
	}
	return start, end
}

func indexSpace(sentence []rune, from int) int {
	for i := from; i < len(sentence); i++ {
		if sentence[i] == ' ' {
			return i
		}
	}
	return -1
}

func clampCursor(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	if cursor > n {
		return n
	}
	return cursor
}

func sortRanges(ranges []protocol.Range) {
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start() < ranges[j].Start() })
}
