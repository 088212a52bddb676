package textsource

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"
)

// Words builds passages from random words of a word list.
type Words struct {
	mu       sync.Mutex
	words    []string
	count    int
	capsPct  float64
	punctPct float64
	punctSet []rune
	rnd      *rand.Rand
}

// WordsOptions configures a Words source.
type WordsOptions struct {
	Count    int
	CapsPct  float64
	PunctPct float64
	PunctSet string
	Seed     int64
}

// NewWords returns a Words source over the list.
func NewWords(words []string, opts WordsOptions) *Words {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Words{
		words:    words,
		count:    opts.Count,
		capsPct:  opts.CapsPct,
		punctPct: opts.PunctPct,
		punctSet: []rune(opts.PunctSet),
		rnd:      rand.New(rand.NewSource(seed)),
	}
}

// Next implements Source.
func (w *Words) Next(_ context.Context) (string, error) {
	if len(w.words) == 0 || w.count <= 0 {
		return "", &ProviderError{Provider: "words", Err: errors.New("word list is empty")}
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, 0, w.count)
	for i := 0; i < w.count; i++ {
		word := w.words[w.rnd.Intn(len(w.words))]
		word = applyCaps(w.rnd, word, w.capsPct)
		word = applyPunct(w.rnd, word, w.punctPct, w.punctSet)
		out = append(out, word)
	}
	return strings.Join(out, " "), nil
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
