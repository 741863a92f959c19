package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

// renderHome renders the welcome screen.
func renderHome(layout entities.LayoutDirectives, t texts) string {
	text := fmt.Sprintf("%s\n%s", bold(t.Title), italic(t.Subtitle))
	return directional(layout, text)
}

func renderCountPicker(layout entities.LayoutDirectives, t texts) string {
	return directional(layout, md(t.ChooseCount))
}

// renderQuestion renders the quiz card for the current question.
func renderQuestion(layout entities.LayoutDirectives, t texts, snap entities.SessionSnapshot) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf(t.QuestionFmt, snap.CurrentIndex+1, snap.Total, snap.Progress())))
	sb.WriteString("\n\n")
	sb.WriteString(md(snap.Question.Prompt))

	if snap.IsLocked && snap.Answer != nil {
		sb.WriteString("\n\n")
		if snap.Answer.IsCorrect {
			sb.WriteString(bold(t.Correct))
		} else {
			correct := snap.Question.Options[snap.Question.CorrectOptionIndex]
			sb.WriteString(bold(fmt.Sprintf(t.IncorrectFmt, correct)))
		}
	}

	return directional(layout, sb.String())
}

// renderResult renders the score screen of a completed session.
func renderResult(layout entities.LayoutDirectives, t texts, report entities.ScoreReport) string {
	verdict := markWrong + " " + bold(t.Failed) + " " + md(t.TryAgain)
	if report.Passed {
		verdict = markCorrect + " " + bold(t.Passed) + " " + md(t.Congratulations)
	}

	text := fmt.Sprintf(
		"%s\n\n%s %s\n%s\n%s\n%s\n\n%s",
		bold(t.TestResults),
		md(t.YourScore+":"),
		bold(strconv.Itoa(report.Percentage)+"%"),
		md(fmt.Sprintf("%s: %d", t.CorrectAnswers, report.CorrectCount)),
		md(fmt.Sprintf("%s: %d", t.TotalQuestions, report.TotalCount)),
		md(fmt.Sprintf(t.PassMarkFmt, entities.PassThreshold)),
		verdict,
	)
	return directional(layout, text)
}

// renderReview renders the per-question review, split into messages that
// fit Telegram's length limit.
func renderReview(layout entities.LayoutDirectives, t texts, items []entities.ReviewItem) []string {
	blocks := make([]string, 0, len(items))
	for i, item := range items {
		var sb strings.Builder
		sb.WriteString(bold(fmt.Sprintf("%d. %s", i+1, item.Question.Prompt)))
		sb.WriteString("\n")

		correct := item.Question.Options[item.Question.CorrectOptionIndex]
		switch {
		case !item.Answered:
			sb.WriteString(markUnselected + " " + md(t.NotAnswered))
			sb.WriteString("\n" + md(fmt.Sprintf(t.CorrectAnswerFmt, correct)))
		case item.IsCorrect:
			sb.WriteString(markCorrect + " " + md(fmt.Sprintf(t.YourAnswerFmt, correct)))
		default:
			selected := item.Question.Options[item.SelectedOption]
			sb.WriteString(markWrong + " " + md(fmt.Sprintf(t.YourAnswerFmt, selected)))
			sb.WriteString("\n" + md(fmt.Sprintf(t.CorrectAnswerFmt, correct)))
		}

		blocks = append(blocks, directional(layout, sb.String()))
	}

	return chunkText(blocks, "\n\n", maxMessageLength)
}

func renderLanguagePicker(layout entities.LayoutDirectives, t texts) string {
	return directional(layout, bold(t.ChooseLanguage))
}

func renderRules(layout entities.LayoutDirectives, t texts) string {
	return directional(layout, bold(t.RulesTitle))
}

// renderRuleCategory lists the rules of one category.
func renderRuleCategory(layout entities.LayoutDirectives, lang entities.LanguageCode, category entities.RuleCategory) string {
	var sb strings.Builder
	sb.WriteString(bold(category.Title.In(lang)))
	for _, r := range category.Rules {
		sb.WriteString("\n\n")
		sb.WriteString(md("• " + r.Text.In(lang)))
	}
	return directional(layout, sb.String())
}
