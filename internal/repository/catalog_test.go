package repository

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/WhoAbdullahSheikh/drivesmart/assets"
	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

const validEN = `[
  {"id": "1", "category": "signs", "question": "Stop?", "options": ["Yes", "No"], "correctAnswerIndex": 0},
  {"id": "2", "category": "signs", "question": "Go?", "options": ["Yes", "No", "Maybe"], "correctAnswerIndex": 2}
]`

func TestLoadQuestionCatalogs(t *testing.T) {
	fsys := fstest.MapFS{
		"questions.en.json": {Data: []byte(validEN)},
		"questions.sv.json": {Data: []byte(`[{"id": "1", "question": "Stopp?", "options": ["Ja", "Nej"], "correctAnswerIndex": 0}]`)},
	}

	catalogs, err := LoadQuestionCatalogs(fsys)
	if err != nil {
		t.Fatalf("LoadQuestionCatalogs() error = %v", err)
	}

	if len(catalogs[entities.LanguageEnglish]) != 2 || len(catalogs[entities.LanguageSwedish]) != 1 {
		t.Errorf("catalog sizes = en:%d sv:%d", len(catalogs[entities.LanguageEnglish]), len(catalogs[entities.LanguageSwedish]))
	}
	if _, ok := catalogs[entities.LanguageArabic]; ok {
		t.Error("missing ar catalog should be skipped")
	}

	q := catalogs[entities.LanguageEnglish][1]
	if q.Prompt != "Go?" || q.CorrectOptionIndex != 2 || q.Category != "signs" {
		t.Errorf("decoded question = %+v", q)
	}
}

func TestLoadQuestionCatalogsErrors(t *testing.T) {
	tests := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr error
	}{
		{
			name:    "missing english",
			fsys:    fstest.MapFS{"questions.sv.json": {Data: []byte(validEN)}},
			wantErr: fs.ErrNotExist,
		},
		{
			name:    "empty english",
			fsys:    fstest.MapFS{"questions.en.json": {Data: []byte(`[]`)}},
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "index out of range",
			fsys: fstest.MapFS{"questions.en.json": {Data: []byte(
				`[{"id": "1", "question": "?", "options": ["a", "b"], "correctAnswerIndex": 2}]`)}},
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "single option",
			fsys: fstest.MapFS{"questions.en.json": {Data: []byte(
				`[{"id": "1", "question": "?", "options": ["a"], "correctAnswerIndex": 0}]`)}},
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "duplicate id",
			fsys: fstest.MapFS{"questions.en.json": {Data: []byte(
				`[{"id": "1", "question": "?", "options": ["a", "b"], "correctAnswerIndex": 0},
				  {"id": "1", "question": "?", "options": ["a", "b"], "correctAnswerIndex": 1}]`)}},
			wantErr: ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadQuestionCatalogs(tt.fsys)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadQuestionCatalogs() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		_, err := LoadQuestionCatalogs(fstest.MapFS{"questions.en.json": {Data: []byte(`{`)}})
		if err == nil {
			t.Error("LoadQuestionCatalogs() error = nil for malformed JSON")
		}
	})
}

func TestBundledCatalogs(t *testing.T) {
	questions, err := fs.Sub(assets.FS, assets.QuestionsDir)
	if err != nil {
		t.Fatalf("fs.Sub() error = %v", err)
	}

	catalogs, err := LoadQuestionCatalogs(questions)
	if err != nil {
		t.Fatalf("bundled catalogs invalid: %v", err)
	}

	for _, l := range entities.SupportedLanguages() {
		if len(catalogs[l.Code]) == 0 {
			t.Errorf("no bundled catalog for %s", l.Code)
		}
	}

	book, err := LoadRulesBook(assets.FS, assets.RulesFile)
	if err != nil {
		t.Fatalf("bundled rules invalid: %v", err)
	}
	if len(book.Categories()) == 0 {
		t.Error("bundled rules have no categories")
	}
}

func TestRulesBook(t *testing.T) {
	fsys := fstest.MapFS{
		"rules.json": {Data: []byte(`{"categories": [
			{"id": "speed", "title": {"en": "Speed", "sv": "Hastighet"},
			 "rules": [{"id": "s1", "text": {"en": "Keep right", "ar": "التزم باليمين"}}]}
		]}`)},
	}

	book, err := LoadRulesBook(fsys, "rules.json")
	if err != nil {
		t.Fatalf("LoadRulesBook() error = %v", err)
	}

	c, ok := book.Category("speed")
	if !ok {
		t.Fatal("Category(speed) not found")
	}
	if got := c.Title.In(entities.LanguageArabic); got != "Speed" {
		t.Errorf("Title.In(ar) = %q, want English fallback", got)
	}
	if got := c.Rules[0].Text.In(entities.LanguageArabic); got != "التزم باليمين" {
		t.Errorf("Text.In(ar) = %q", got)
	}
	if _, ok := book.Category("parking"); ok {
		t.Error("Category(parking) found")
	}
}
