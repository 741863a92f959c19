package service

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

// QuestionBank holds the immutable per-language question catalogs and samples
// question lists for new sessions.
type QuestionBank struct {
	catalogs map[entities.LanguageCode][]entities.Question

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewQuestionBank creates a bank over the given catalogs. The default language
// catalog must be present and non-empty; it backs every other language.
// A nil rng is seeded from the clock.
func NewQuestionBank(catalogs map[entities.LanguageCode][]entities.Question, rng *rand.Rand) (*QuestionBank, error) {
	if len(catalogs[entities.DefaultLanguage]) == 0 {
		return nil, fmt.Errorf("%w: no %s catalog", entities.ErrEmptyQuestionSet, entities.DefaultLanguage)
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := &QuestionBank{
		catalogs: make(map[entities.LanguageCode][]entities.Question, len(catalogs)),
		rng:      rng,
	}
	for code, questions := range catalogs {
		if !code.Valid() {
			return nil, fmt.Errorf("%w: catalog %q", entities.ErrUnsupportedLanguage, code)
		}
		if len(questions) == 0 {
			continue
		}
		b.catalogs[code] = slices.Clone(questions)
	}

	return b, nil
}

// GetQuestions returns the full catalog for lang, or the default language
// catalog when lang has none.
func (b *QuestionBank) GetQuestions(lang entities.LanguageCode) []entities.Question {
	return slices.Clone(b.catalog(lang))
}

func (b *QuestionBank) catalog(lang entities.LanguageCode) []entities.Question {
	if qs, ok := b.catalogs[lang]; ok {
		return qs
	}
	return b.catalogs[entities.DefaultLanguage]
}

// Languages returns the languages that have their own catalog.
func (b *QuestionBank) Languages() []entities.LanguageCode {
	out := make([]entities.LanguageCode, 0, len(b.catalogs))
	for _, l := range entities.SupportedLanguages() {
		if _, ok := b.catalogs[l.Code]; ok {
			out = append(out, l.Code)
		}
	}
	return out
}

// SampleSession draws min(requested, catalog size) distinct questions in
// uniformly random order. A requested count of zero means the whole catalog.
func (b *QuestionBank) SampleSession(lang entities.LanguageCode, requested int) ([]entities.Question, error) {
	if requested < 0 {
		return nil, fmt.Errorf("%w: %d", entities.ErrInvalidQuestionCount, requested)
	}

	all := b.catalog(lang)
	n := len(all)
	if requested > 0 && requested < n {
		n = requested
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return sample(b.rng, all, n), nil
}

// sample runs the first k steps of a Fisher-Yates shuffle over a copy of items.
func sample[T any](rng *rand.Rand, items []T, k int) []T {
	pool := slices.Clone(items)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
