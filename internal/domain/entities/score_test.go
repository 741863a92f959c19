package entities

import "testing"

func answersFor(questions []Question, correct int) []AnswerRecord {
	out := make([]AnswerRecord, 0, len(questions))
	for i, q := range questions {
		selected := q.CorrectOptionIndex
		if i >= correct {
			selected = (q.CorrectOptionIndex + 1) % len(q.Options)
		}
		out = append(out, AnswerRecord{
			QuestionID:     q.ID,
			SelectedOption: selected,
			IsCorrect:      i < correct,
		})
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		questions int
		correct   int
		expected  ScoreReport
	}{
		{
			name:      "no questions",
			questions: 0,
			correct:   0,
			expected:  ScoreReport{},
		},
		{
			name:      "two of three rounds up",
			questions: 3,
			correct:   2,
			expected:  ScoreReport{CorrectCount: 2, TotalCount: 3, Percentage: 67, Passed: false},
		},
		{
			name:      "exactly seventy percent passes",
			questions: 10,
			correct:   7,
			expected:  ScoreReport{CorrectCount: 7, TotalCount: 10, Percentage: 70, Passed: true},
		},
		{
			name:      "just under the threshold",
			questions: 20,
			correct:   13,
			expected:  ScoreReport{CorrectCount: 13, TotalCount: 20, Percentage: 65, Passed: false},
		},
		{
			name:      "all correct",
			questions: 5,
			correct:   5,
			expected:  ScoreReport{CorrectCount: 5, TotalCount: 5, Percentage: 100, Passed: true},
		},
		{
			name:      "none correct",
			questions: 4,
			correct:   0,
			expected:  ScoreReport{CorrectCount: 0, TotalCount: 4, Percentage: 0, Passed: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := testQuestions(tt.questions)
			got := Score(qs, answersFor(qs, tt.correct))
			if got != tt.expected {
				t.Errorf("Score() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestScoreUnansweredAndForeign(t *testing.T) {
	qs := testQuestions(4)
	answers := []AnswerRecord{
		{QuestionID: qs[0].ID, SelectedOption: qs[0].CorrectOptionIndex},
		{QuestionID: "unknown", SelectedOption: 0},
	}

	got := Score(qs, answers)
	want := ScoreReport{CorrectCount: 1, TotalCount: 4, Percentage: 25, Passed: false}
	if got != want {
		t.Errorf("Score() = %+v, want %+v", got, want)
	}
}

func TestScoreIdempotent(t *testing.T) {
	qs := testQuestions(6)
	answers := answersFor(qs, 4)

	first := Score(qs, answers)
	second := Score(qs, answers)
	if first != second {
		t.Errorf("Score() not idempotent: %+v vs %+v", first, second)
	}
}

func TestReview(t *testing.T) {
	qs := testQuestions(3)
	answers := []AnswerRecord{
		{QuestionID: qs[0].ID, SelectedOption: qs[0].CorrectOptionIndex},
		{QuestionID: qs[2].ID, SelectedOption: (qs[2].CorrectOptionIndex + 1) % 3},
	}

	items := Review(qs, answers)
	if len(items) != 3 {
		t.Fatalf("len(Review()) = %d, want 3", len(items))
	}
	if !items[0].Answered || !items[0].IsCorrect {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[1].Answered || items[1].SelectedOption != NoSelection {
		t.Errorf("item 1 = %+v", items[1])
	}
	if !items[2].Answered || items[2].IsCorrect {
		t.Errorf("item 2 = %+v", items[2])
	}
}
