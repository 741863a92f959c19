package telegram

import (
	"strconv"
	"strings"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

// Callback action constants.
const (
	actionMenu   = "menu"
	actionCount  = "count"
	actionQuiz   = "quiz"
	actionResult = "result"
	actionLang   = "lang"
	actionRules  = "rules"
)

// Menu sub-actions.
const (
	menuHome     = "home"
	menuTest     = "test"
	menuLanguage = "lang"
	menuRules    = "rules"
)

// Quiz sub-actions.
const (
	quizSelect = "sel"
	quizSubmit = "submit"
	quizPrev   = "prev"
	quizNext   = "next"
	quizQuit   = "quit"
)

// Result sub-actions.
const (
	resultRestart = "restart"
	resultDetails = "details"
)

// shortIDLength is how much of the session id goes into quiz callbacks.
// Buttons of replaced sessions carry a different prefix and are rejected.
const shortIDLength = 8

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func shortID(sessionID string) string {
	if len(sessionID) > shortIDLength {
		return sessionID[:shortIDLength]
	}
	return sessionID
}

func buildMenuCallback(item string) string {
	return callbackData{Action: actionMenu, Params: []string{item}}.encode()
}

// buildCountCallback builds callback data for starting a test with n questions.
// Zero means all questions.
func buildCountCallback(n int) string {
	return callbackData{Action: actionCount, Params: []string{strconv.Itoa(n)}}.encode()
}

// buildQuizCallback builds callback data for a quiz card button.
func buildQuizCallback(sessionID, op string, value ...string) string {
	params := []string{shortID(sessionID), op}
	params = append(params, value...)
	return callbackData{Action: actionQuiz, Params: params}.encode()
}

func buildQuizSelectCallback(sessionID string, option int) string {
	return buildQuizCallback(sessionID, quizSelect, strconv.Itoa(option))
}

func buildResultCallback(sub string) string {
	return callbackData{Action: actionResult, Params: []string{sub}}.encode()
}

func buildLanguageCallback(code entities.LanguageCode) string {
	return callbackData{Action: actionLang, Params: []string{code.String()}}.encode()
}

// buildRulesCallback opens the category list, or one category when id is set.
func buildRulesCallback(id string) string {
	if id == "" {
		return actionRules
	}
	return callbackData{Action: actionRules, Params: []string{id}}.encode()
}
