package entities

// LocalizedText holds one string per language.
type LocalizedText map[LanguageCode]string

// In returns the text for lang, falling back to the default language.
func (t LocalizedText) In(lang LanguageCode) string {
	if s, ok := t[lang]; ok && s != "" {
		return s
	}
	return t[DefaultLanguage]
}

// Rule is a single traffic rule.
type Rule struct {
	ID   string        `json:"id"`
	Text LocalizedText `json:"text"`
}

// RuleCategory groups related traffic rules.
type RuleCategory struct {
	ID    string        `json:"id"`
	Title LocalizedText `json:"title"`
	Rules []Rule        `json:"rules"`
}
