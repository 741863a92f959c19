package entities

import "math"

// PassThreshold is the minimum percentage needed to pass a test.
const PassThreshold = 70

// ScoreReport summarizes a completed session.
type ScoreReport struct {
	CorrectCount int
	TotalCount   int
	Percentage   int // 0-100, rounded half away from zero
	Passed       bool
}

// Score reduces the answers of a session to a report.
// Answers are matched to questions by id; answers for unknown ids are ignored.
func Score(questions []Question, answers []AnswerRecord) ScoreReport {
	total := len(questions)
	if total == 0 {
		return ScoreReport{}
	}

	byID := make(map[string]Question, total)
	for _, q := range questions {
		byID[q.ID] = q
	}

	correct := 0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if ok && q.IsCorrect(a.SelectedOption) {
			correct++
		}
	}

	percentage := int(math.Round(float64(correct*100) / float64(total)))

	return ScoreReport{
		CorrectCount: correct,
		TotalCount:   total,
		Percentage:   percentage,
		Passed:       percentage >= PassThreshold,
	}
}

// ReviewItem pairs a question with the answer given to it.
type ReviewItem struct {
	Question       Question
	SelectedOption int // NoSelection when unanswered
	Answered       bool
	IsCorrect      bool
}

// Review lists questions in order together with their answers.
func Review(questions []Question, answers []AnswerRecord) []ReviewItem {
	byID := make(map[string]AnswerRecord, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a
	}

	items := make([]ReviewItem, 0, len(questions))
	for _, q := range questions {
		item := ReviewItem{Question: q, SelectedOption: NoSelection}
		if a, ok := byID[q.ID]; ok {
			item.SelectedOption = a.SelectedOption
			item.Answered = true
			item.IsCorrect = q.IsCorrect(a.SelectedOption)
		}
		items = append(items, item)
	}
	return items
}
