package entities

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// LanguageCode identifies one of the supported content languages.
type LanguageCode string

const (
	LanguageEnglish LanguageCode = "en"
	LanguageSwedish LanguageCode = "sv"
	LanguageArabic  LanguageCode = "ar"

	DefaultLanguage = LanguageEnglish
)

// LanguageInfo describes a supported language for the language picker.
type LanguageInfo struct {
	Code       LanguageCode
	Name       string // English name
	NativeName string // name in the language itself
	Flag       string
	RTL        bool
}

var supportedLanguages = []LanguageInfo{
	{Code: LanguageEnglish, Name: "English", NativeName: "English", Flag: "🇬🇧"},
	{Code: LanguageSwedish, Name: "Swedish", NativeName: "Svenska", Flag: "🇸🇪"},
	{Code: LanguageArabic, Name: "Arabic", NativeName: "العربية", Flag: "🇸🇦", RTL: true},
}

var languageMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Swedish,
	language.Arabic,
})

// SupportedLanguages returns the supported languages in picker order.
func SupportedLanguages() []LanguageInfo {
	out := make([]LanguageInfo, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// Info returns the descriptor of the language, or the default language's descriptor.
func (c LanguageCode) Info() LanguageInfo {
	for _, l := range supportedLanguages {
		if l.Code == c {
			return l
		}
	}
	return supportedLanguages[0]
}

// Valid reports whether c is one of the supported codes.
func (c LanguageCode) Valid() bool {
	for _, l := range supportedLanguages {
		if l.Code == c {
			return true
		}
	}
	return false
}

// IsRTL reports whether the language is written right to left.
func (c LanguageCode) IsRTL() bool {
	return c == LanguageArabic
}

func (c LanguageCode) String() string {
	return string(c)
}

// ParseLanguageCode parses a BCP 47 tag such as "sv", "sv-SE" or "AR"
// and reduces it to a supported base language.
func ParseLanguageCode(s string) (LanguageCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty code", ErrUnsupportedLanguage)
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}

	base, _ := tag.Base()
	code := LanguageCode(base.String())
	if !code.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}

	return code, nil
}

// MatchLanguage picks the closest supported language for client-reported tags,
// falling back to the default language when nothing matches.
func MatchLanguage(tags ...string) LanguageCode {
	parsed := make([]language.Tag, 0, len(tags))
	for _, t := range tags {
		if tag, err := language.Parse(t); err == nil {
			parsed = append(parsed, tag)
		}
	}
	if len(parsed) == 0 {
		return DefaultLanguage
	}

	_, idx, conf := languageMatcher.Match(parsed...)
	if conf == language.No {
		return DefaultLanguage
	}
	return supportedLanguages[idx].Code
}

// LocalizationState is the active language together with its directionality.
type LocalizationState struct {
	ActiveLanguage LanguageCode
	IsRTL          bool
}

// NewLocalizationState builds the state for code; IsRTL is derived from the code.
func NewLocalizationState(code LanguageCode) LocalizationState {
	return LocalizationState{
		ActiveLanguage: code,
		IsRTL:          code.IsRTL(),
	}
}

// DefaultLocalizationState returns the state used when no preference is stored.
func DefaultLocalizationState() LocalizationState {
	return NewLocalizationState(DefaultLanguage)
}

// LayoutDirectives are the presentation hints derived from the localization state.
type LayoutDirectives struct {
	TextAlign        string
	WritingDirection string
	FlexDirection    string
	AlignItems       string
}

// Mirrored reports whether horizontal layouts must be reversed.
func (d LayoutDirectives) Mirrored() bool {
	return d.FlexDirection == "row-reverse"
}

// DeriveLayoutDirectives maps a localization state onto layout directives.
func DeriveLayoutDirectives(state LocalizationState) LayoutDirectives {
	if state.ActiveLanguage == LanguageArabic {
		return LayoutDirectives{
			TextAlign:        "right",
			WritingDirection: "rtl",
			FlexDirection:    "row-reverse",
			AlignItems:       "flex-end",
		}
	}

	return LayoutDirectives{
		TextAlign:        "left",
		WritingDirection: "ltr",
		FlexDirection:    "row",
		AlignItems:       "flex-start",
	}
}
