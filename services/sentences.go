package services

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Bold014/typeio-backend/game"
)

// tierTargetLength is the minimum sentence length, in characters, handed out
// at each tier. Higher tiers clamp to the last entry.
var tierTargetLength = []int{100, 130, 160, 190, 220, 250, 280, 310, 340, 370}

type Quote struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type quoteFile struct {
	Quotes []Quote `json:"quotes"`
}

// SentenceBank builds tier-sized sentences by joining random quotes.
type SentenceBank struct {
	mu     sync.Mutex
	quotes []Quote
	rng    *rand.Rand
}

func NewSentenceBank(quotes []Quote, rng *rand.Rand) *SentenceBank {
	if len(quotes) == 0 {
		quotes = builtinQuotes
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SentenceBank{quotes: quotes, rng: rng}
}

// LoadSentences reads a {"quotes": [{"text", "source"}]} file. An empty path
// yields the builtin quotes.
func LoadSentences(path string) (*SentenceBank, error) {
	if path == "" {
		return NewSentenceBank(nil, nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sentences: %w", err)
	}
	var file quoteFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse sentences %s: %w", path, err)
	}

	quotes := file.Quotes[:0]
	for _, q := range file.Quotes {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text != "" {
			quotes = append(quotes, q)
		}
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("sentences %s: no quotes", path)
	}
	return NewSentenceBank(quotes, nil), nil
}

func (b *SentenceBank) SentenceForTier(tier int) game.Sentence {
	idx := tier - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(tierTargetLength) {
		idx = len(tierTargetLength) - 1
	}
	target := tierTargetLength[idx]

	b.mu.Lock()
	order := b.rng.Perm(len(b.quotes))
	b.mu.Unlock()

	var (
		texts   []string
		sources []string
		length  int
	)
	for _, i := range order {
		if len(texts) > 0 && length >= target {
			break
		}
		q := b.quotes[i]
		texts = append(texts, q.Text)
		sources = append(sources, q.Source)
		length += len([]rune(q.Text))
	}
	return game.Sentence{
		Text:   strings.Join(texts, " "),
		Source: strings.Join(sources, " / "),
	}
}

var builtinQuotes = []Quote{
	{Text: "The only way to do great work is to love what you do.", Source: "Steve Jobs"},
	{Text: "It does not matter how slowly you go as long as you do not stop.", Source: "Confucius"},
	{Text: "In the middle of difficulty lies opportunity.", Source: "Albert Einstein"},
	{Text: "Simplicity is prerequisite for reliability.", Source: "Edsger Dijkstra"},
	{Text: "The best way to predict the future is to invent it.", Source: "Alan Kay"},
	{Text: "Programs must be written for people to read, and only incidentally for machines to execute.", Source: "Harold Abelson"},
	{Text: "A journey of a thousand miles begins with a single step.", Source: "Lao Tzu"},
	{Text: "Whether you think you can or you think you can't, you're right.", Source: "Henry Ford"},
	{Text: "We are what we repeatedly do. Excellence, then, is not an act, but a habit.", Source: "Will Durant"},
	{Text: "Fall seven times and stand up eight.", Source: "Japanese proverb"},
	{Text: "The secret of getting ahead is getting started.", Source: "Mark Twain"},
	{Text: "Climb the mountain so you can see the world, not so the world can see you.", Source: "David McCullough"},
	{Text: "Everything should be made as simple as possible, but not simpler.", Source: "Albert Einstein"},
	{Text: "Well done is better than well said.", Source: "Benjamin Franklin"},
	{Text: "The man who moves a mountain begins by carrying away small stones.", Source: "Confucius"},
	{Text: "Quality is not an act, it is a habit.", Source: "Aristotle"},
}
