package textsource

import (
	"context"
	"math/rand"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const maxRecent = 3

// Passage is a corpus entry.
type Passage struct {
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
}

// Corpus serves passages from a fixed in-memory list. It never fails and
// avoids repeating the most recently served passages.
type Corpus struct {
	mu       sync.Mutex
	passages []Passage
	rnd      *rand.Rand
	recent   *lru.Cache[int, struct{}]
}

// NewCorpus returns a Corpus over passages, or the built-in texts when empty.
func NewCorpus(passages []Passage) *Corpus {
	return NewCorpusWithSeed(passages, time.Now().UnixNano())
}

// NewCorpusWithSeed is NewCorpus with a deterministic random source.
func NewCorpusWithSeed(passages []Passage, seed int64) *Corpus {
	if len(passages) == 0 {
		passages = make([]Passage, 0, len(SampleTexts))
		for _, text := range SampleTexts {
			passages = append(passages, Passage{Text: text})
		}
	}
	c := &Corpus{
		passages: passages,
		rnd:      rand.New(rand.NewSource(seed)),
	}
	size := len(passages) - 1
	if size > maxRecent {
		size = maxRecent
	}
	if size > 0 {
		// lru.New only fails for non-positive sizes.
		c.recent, _ = lru.New[int, struct{}](size)
	}
	return c
}

// Len returns the number of passages.
func (c *Corpus) Len() int {
	return len(c.passages)
}

// Next implements Source.
func (c *Corpus) Next(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.pick()
	if c.recent != nil {
		c.recent.Add(idx, struct{}{})
	}
	return c.passages[idx].Text, nil
}

func (c *Corpus) pick() int {
	if c.recent == nil {
		return c.rnd.Intn(len(c.passages))
	}
	candidates := make([]int, 0, len(c.passages))
	for i := range c.passages {
		if !c.recent.Contains(i) {
			candidates = append(candidates, i)
		}
	}
	return candidates[c.rnd.Intn(len(candidates))]
}
