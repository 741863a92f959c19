package telegram

import (
	"fmt"
	"slices"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

// Option markers on the quiz card.
const (
	markUnselected = "⚪"
	markSelected   = "🔘"
	markCorrect    = "✅"
	markWrong      = "❌"
)

// keyboard builds an inline keyboard laid out for the writing direction:
// mirrored layouts read every row right to left.
func keyboard(layout entities.LayoutDirectives, rows ...[]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		row = slices.Clone(row)
		if layout.Mirrored() {
			slices.Reverse(row)
		}
		out = append(out, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

// buildMainMenuKeyboard builds the home screen keyboard.
func buildMainMenuKeyboard(layout entities.LayoutDirectives, t texts) tgbotapi.InlineKeyboardMarkup {
	return keyboard(layout,
		tgbotapi.NewInlineKeyboardRow(button(t.MenuStartTest, buildMenuCallback(menuTest))),
		tgbotapi.NewInlineKeyboardRow(
			button(t.MenuRules, buildMenuCallback(menuRules)),
			button(t.MenuLanguage, buildMenuCallback(menuLanguage)),
		),
	)
}

// buildCountKeyboard builds the question count picker, two presets per row.
func buildCountKeyboard(layout entities.LayoutDirectives, t texts, presets []int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, n := range presets {
		row = append(row, button(fmt.Sprintf(t.QuestionsFmt, n), buildCountCallback(n)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	rows = append(rows, row)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(t.AllQuestions, buildCountCallback(0))))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(t.Home, buildMenuCallback(menuHome))))

	return keyboard(layout, rows...)
}

// buildQuizKeyboard builds the option buttons and navigation of a quiz card.
func buildQuizKeyboard(layout entities.LayoutDirectives, t texts, snap entities.SessionSnapshot) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for i, option := range snap.Question.Options {
		label := optionMarker(snap, i) + " " + option
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(label, buildQuizSelectCallback(snap.ID, i)),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if !snap.IsFirst() && !snap.AdvancePending {
		nav = append(nav, button(t.Previous, buildQuizCallback(snap.ID, quizPrev)))
	}
	switch {
	case !snap.IsLocked:
		nav = append(nav, button(t.Submit, buildQuizCallback(snap.ID, quizSubmit)))
	case !snap.AdvancePending:
		label := t.Next
		if snap.IsLast() {
			label = t.Finish
		}
		nav = append(nav, button(label, buildQuizCallback(snap.ID, quizNext)))
	}
	rows = append(rows, nav)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(t.Quit, buildQuizCallback(snap.ID, quizQuit))))

	return keyboard(layout, rows...)
}

func optionMarker(snap entities.SessionSnapshot, option int) string {
	if snap.IsLocked {
		switch {
		case snap.Question.IsCorrect(option):
			return markCorrect
		case option == snap.SelectedOption:
			return markWrong
		default:
			return markUnselected
		}
	}
	if option == snap.SelectedOption {
		return markSelected
	}
	return markUnselected
}

// buildResultKeyboard builds keyboard for the results screen.
func buildResultKeyboard(layout entities.LayoutDirectives, t texts) tgbotapi.InlineKeyboardMarkup {
	return keyboard(layout,
		tgbotapi.NewInlineKeyboardRow(
			button(t.RestartTest, buildResultCallback(resultRestart)),
			button(t.ViewDetails, buildResultCallback(resultDetails)),
		),
		tgbotapi.NewInlineKeyboardRow(button(t.Home, buildMenuCallback(menuHome))),
	)
}

// buildLanguageKeyboard lists the supported languages, marking the active one.
func buildLanguageKeyboard(layout entities.LayoutDirectives, t texts, active entities.LanguageCode) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, l := range entities.SupportedLanguages() {
		label := l.Flag + " " + l.NativeName
		if l.Code == active {
			label = markCorrect + " " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(label, buildLanguageCallback(l.Code))))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(t.Home, buildMenuCallback(menuHome))))

	return keyboard(layout, rows...)
}

// buildRulesKeyboard lists rule categories.
func buildRulesKeyboard(
	layout entities.LayoutDirectives, t texts, lang entities.LanguageCode, categories []entities.RuleCategory,
) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(c.Title.In(lang), buildRulesCallback(c.ID))))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(t.Home, buildMenuCallback(menuHome))))

	return keyboard(layout, rows...)
}

// buildRuleCategoryKeyboard returns to the category list.
func buildRuleCategoryKeyboard(layout entities.LayoutDirectives, t texts) tgbotapi.InlineKeyboardMarkup {
	return keyboard(layout,
		tgbotapi.NewInlineKeyboardRow(
			button(t.Back, buildRulesCallback("")),
			button(t.Home, buildMenuCallback(menuHome)),
		),
	)
}
