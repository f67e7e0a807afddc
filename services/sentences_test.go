package services

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentenceForTierMeetsTargetLength(t *testing.T) {
	bank := NewSentenceBank(nil, rand.New(rand.NewSource(1)))
	for tier := 1; tier <= 12; tier++ {
		s := bank.SentenceForTier(tier)
		target := tierTargetLength[len(tierTargetLength)-1]
		if tier <= len(tierTargetLength) {
			target = tierTargetLength[tier-1]
		}
		assert.GreaterOrEqual(t, len([]rune(s.Text)), target, "tier %d", tier)
		assert.Equal(t, strings.Count(s.Source, " / ")+1, countQuotes(s.Text), "tier %d", tier)
	}
}

func countQuotes(text string) int {
	n := 0
	for _, q := range builtinQuotes {
		n += strings.Count(text, q.Text)
	}
	return n
}

func TestSentenceForTierSingleLongQuote(t *testing.T) {
	long := strings.Repeat("climb ", 80)
	bank := NewSentenceBank([]Quote{{Text: long, Source: "wall"}}, rand.New(rand.NewSource(1)))
	s := bank.SentenceForTier(0)
	assert.Equal(t, long, s.Text)
	assert.Equal(t, "wall", s.Source)
}

func TestLoadSentences(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quotes.json")
	body := `{"quotes":[{"text":"  first quote  ","source":"a"},{"text":"","source":"b"},{"text":"second","source":"c"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	bank, err := LoadSentences(path)
	require.NoError(t, err)
	assert.Equal(t, []Quote{{Text: "first quote", Source: "a"}, {Text: "second", Source: "c"}}, bank.quotes)

	_, err = LoadSentences(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"quotes":[]}`), 0o644))
	_, err = LoadSentences(empty)
	assert.Error(t, err)

	bank, err = LoadSentences("")
	require.NoError(t, err)
	assert.Equal(t, builtinQuotes, bank.quotes)
}
