package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// CatalogFileName returns the question catalog file name for a language.
func CatalogFileName(code entities.LanguageCode) string {
	return "questions." + code.String() + ".json"
}

// LoadQuestionCatalogs reads questions.<code>.json for every supported language
// from the root of fsys. Only the default language catalog is required.
func LoadQuestionCatalogs(fsys fs.FS) (map[entities.LanguageCode][]entities.Question, error) {
	catalogs := make(map[entities.LanguageCode][]entities.Question)

	for _, l := range entities.SupportedLanguages() {
		name := CatalogFileName(l.Code)

		questions, err := loadQuestions(fsys, name)
		if errors.Is(err, fs.ErrNotExist) && l.Code != entities.DefaultLanguage {
			continue
		}
		if err != nil {
			return nil, err
		}

		catalogs[l.Code] = questions
	}

	return catalogs, nil
}

func loadQuestions(fsys fs.FS, name string) ([]entities.Question, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var questions []entities.Question
	if err = json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: %s has no questions", ErrInvalidCatalog, name)
	}

	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s question %d (%q): %v", ErrInvalidCatalog, name, i, q.ID, err)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: %s duplicate question id %q", ErrInvalidCatalog, name, q.ID)
		}
		seen[q.ID] = struct{}{}
	}

	return questions, nil
}

// RulesBook provides the traffic rules reference.
type RulesBook struct {
	categories []entities.RuleCategory
}

// LoadRulesBook reads the rules file at name from fsys.
func LoadRulesBook(fsys fs.FS, name string) (*RulesBook, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var wrapper struct {
		Categories []entities.RuleCategory `json:"categories"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", name, err)
	}

	for _, c := range wrapper.Categories {
		if c.ID == "" || c.Title.In(entities.DefaultLanguage) == "" {
			return nil, fmt.Errorf("%w: %s category %q has no id or English title", ErrInvalidCatalog, name, c.ID)
		}
	}

	return &RulesBook{categories: wrapper.Categories}, nil
}

// Categories returns all rule categories in file order.
func (r *RulesBook) Categories() []entities.RuleCategory {
	return r.categories
}

// Category returns the category with the given id.
func (r *RulesBook) Category(id string) (entities.RuleCategory, bool) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, true
		}
	}
	return entities.RuleCategory{}, false
}
