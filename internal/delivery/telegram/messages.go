// messages.go contains localized message templates for Telegram.

package telegram

import (
	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

// texts is the set of UI strings for one language.
type texts struct {
	Title    string
	Subtitle string

	MenuStartTest string
	MenuRules     string
	MenuLanguage  string
	Home          string
	Back          string

	ChooseCount   string
	AllQuestions  string
	QuestionsFmt  string // %d questions
	QuestionFmt   string // Question %d of %d · %d%%
	Previous      string
	Next          string
	Finish        string
	Submit        string
	Quit          string
	Correct       string
	IncorrectFmt  string // correct answer %s
	SelectFirst   string
	InvalidOption string
	AnswerLocked  string
	WaitNext      string
	NoSession     string
	Abandoned     string

	TestResults     string
	YourScore       string
	CorrectAnswers  string
	TotalQuestions  string
	PassMarkFmt     string // %d%%
	Passed          string
	Failed          string
	Congratulations string
	TryAgain        string
	RestartTest     string
	ViewDetails     string
	YourAnswerFmt   string
	CorrectAnswerFmt string
	NotAnswered     string

	ChooseLanguage     string
	LanguageChangedFmt string // %s native language name

	RulesTitle string

	Help            string
	TooManyRequests string
	InternalError   string
}

var translations = map[entities.LanguageCode]texts{
	entities.LanguageEnglish: {
		Title:    "Drive Smart",
		Subtitle: "Master your driving skills",

		MenuStartTest: "🚗 Start Test",
		MenuRules:     "📘 Traffic Rules",
		MenuLanguage:  "🌐 Language",
		Home:          "🏠 Home",
		Back:          "« Back",

		ChooseCount:   "How many questions do you want to answer?",
		AllQuestions:  "All questions",
		QuestionsFmt:  "%d questions",
		QuestionFmt:   "Question %d of %d · %d%%",
		Previous:      "◀️ Previous",
		Next:          "Next ▶️",
		Finish:        "🏁 Finish",
		Submit:        "✔️ Submit",
		Quit:          "✖️ Quit test",
		Correct:       "✅ Correct!",
		IncorrectFmt:  "❌ Incorrect. Correct answer: %s",
		SelectFirst:   "Select an answer first.",
		InvalidOption: "That option does not exist.",
		AnswerLocked:  "This question is already answered.",
		WaitNext:      "The next question is on its way.",
		NoSession:     "This test is no longer active. Use /test to start a new one.",
		Abandoned:     "Test ended. Your answers were discarded.",

		TestResults:      "Test Results",
		YourScore:        "Your Score",
		CorrectAnswers:   "Correct Answers",
		TotalQuestions:   "Total Questions",
		PassMarkFmt:      "Pass mark: %d%%",
		Passed:           "You Passed!",
		Failed:           "You Failed",
		Congratulations:  "Congratulations!",
		TryAgain:         "Try Again!",
		RestartTest:      "🔄 Restart Test",
		ViewDetails:      "📋 View Details",
		YourAnswerFmt:    "Your answer: %s",
		CorrectAnswerFmt: "Correct answer: %s",
		NotAnswered:      "Not answered",

		ChooseLanguage:     "Choose your language",
		LanguageChangedFmt: "Language set to %s.",

		RulesTitle: "Swedish Traffic Rules",

		Help: "Commands:\n\n" +
			"/test — start a driving test\n" +
			"/test 20 — start a test with 20 questions\n" +
			"/rules — traffic rules\n" +
			"/language — change language\n" +
			"/quit — end the current test\n" +
			"/help — this message",
		TooManyRequests: "Too many requests, slow down a little.",
		InternalError:   "Something went wrong. Please try again later.",
	},

	entities.LanguageSwedish: {
		Title:    "Körkortstest",
		Subtitle: "Förbättra dina körkunskaper",

		MenuStartTest: "🚗 Starta testet",
		MenuRules:     "📘 Trafikregler",
		MenuLanguage:  "🌐 Språk",
		Home:          "🏠 Hem",
		Back:          "« Tillbaka",

		ChooseCount:   "Hur många frågor vill du svara på?",
		AllQuestions:  "Alla frågor",
		QuestionsFmt:  "%d frågor",
		QuestionFmt:   "Fråga %d av %d · %d%%",
		Previous:      "◀️ Föregående",
		Next:          "Nästa ▶️",
		Finish:        "🏁 Avsluta",
		Submit:        "✔️ Svara",
		Quit:          "✖️ Avbryt testet",
		Correct:       "✅ Rätt!",
		IncorrectFmt:  "❌ Fel. Rätt svar: %s",
		SelectFirst:   "Välj ett svar först.",
		InvalidOption: "Det alternativet finns inte.",
		AnswerLocked:  "Frågan är redan besvarad.",
		WaitNext:      "Nästa fråga kommer strax.",
		NoSession:     "Testet är inte längre aktivt. Skriv /test för att starta ett nytt.",
		Abandoned:     "Testet avbröts. Dina svar sparades inte.",

		TestResults:      "Testresultat",
		YourScore:        "Din poäng",
		CorrectAnswers:   "Rätta svar",
		TotalQuestions:   "Totalt frågor",
		PassMarkFmt:      "Gräns för godkänt: %d%%",
		Passed:           "Du klarade det!",
		Failed:           "Du klarade inte",
		Congratulations:  "Grattis!",
		TryAgain:         "Försök igen!",
		RestartTest:      "🔄 Börja om testet",
		ViewDetails:      "📋 Visa detaljer",
		YourAnswerFmt:    "Ditt svar: %s",
		CorrectAnswerFmt: "Rätt svar: %s",
		NotAnswered:      "Inte besvarad",

		ChooseLanguage:     "Välj språk",
		LanguageChangedFmt: "Språket är nu %s.",

		RulesTitle: "Svenska trafikregler",

		Help: "Kommandon:\n\n" +
			"/test — starta ett körkortstest\n" +
			"/test 20 — starta ett test med 20 frågor\n" +
			"/rules — trafikregler\n" +
			"/language — byt språk\n" +
			"/quit — avbryt pågående test\n" +
			"/help — detta meddelande",
		TooManyRequests: "För många förfrågningar, ta det lite lugnare.",
		InternalError:   "Något gick fel. Försök igen senare.",
	},

	entities.LanguageArabic: {
		Title:    "اختبار القيادة",
		Subtitle: "احترف مهارات القيادة",

		MenuStartTest: "🚗 بدء الاختبار",
		MenuRules:     "📘 قواعد المرور",
		MenuLanguage:  "🌐 اللغة",
		Home:          "🏠 الصفحة الرئيسية",
		Back:          "رجوع »",

		ChooseCount:   "كم عدد الأسئلة التي تريد الإجابة عليها؟",
		AllQuestions:  "جميع الأسئلة",
		QuestionsFmt:  "%d سؤال",
		QuestionFmt:   "السؤال %d من %d · %d%%",
		Previous:      "السابق ▶️",
		Next:          "◀️ التالي",
		Finish:        "🏁 إنهاء",
		Submit:        "✔️ إرسال",
		Quit:          "✖️ إنهاء الاختبار",
		Correct:       "✅ إجابة صحيحة!",
		IncorrectFmt:  "❌ إجابة خاطئة. الإجابة الصحيحة: %s",
		SelectFirst:   "اختر إجابة أولاً.",
		InvalidOption: "هذا الخيار غير موجود.",
		AnswerLocked:  "تمت الإجابة على هذا السؤال بالفعل.",
		WaitNext:      "السؤال التالي في الطريق.",
		NoSession:     "هذا الاختبار لم يعد نشطًا. استخدم /test لبدء اختبار جديد.",
		Abandoned:     "انتهى الاختبار. لم يتم حفظ إجاباتك.",

		TestResults:      "نتيجة الاختبار",
		YourScore:        "درجتك",
		CorrectAnswers:   "إجابات صحيحة",
		TotalQuestions:   "إجمالي الأسئلة",
		PassMarkFmt:      "درجة النجاح: %d%%",
		Passed:           "لقد نجحت!",
		Failed:           "لم تنجح",
		Congratulations:  "تهانينا!",
		TryAgain:         "حاول مرة أخرى!",
		RestartTest:      "🔄 إعادة الاختبار",
		ViewDetails:      "📋 عرض التفاصيل",
		YourAnswerFmt:    "إجابتك: %s",
		CorrectAnswerFmt: "الإجابة الصحيحة: %s",
		NotAnswered:      "لم تتم الإجابة",

		ChooseLanguage:     "اختر لغتك",
		LanguageChangedFmt: "تم تغيير اللغة إلى %s.",

		RulesTitle: "قواعد المرور السويدية",

		Help: "الأوامر:\n\n" +
			"/test — بدء اختبار القيادة\n" +
			"/test 20 — بدء اختبار من 20 سؤالاً\n" +
			"/rules — قواعد المرور\n" +
			"/language — تغيير اللغة\n" +
			"/quit — إنهاء الاختبار الحالي\n" +
			"/help — هذه الرسالة",
		TooManyRequests: "طلبات كثيرة جدًا، تمهل قليلاً.",
		InternalError:   "حدث خطأ ما. يرجى المحاولة لاحقًا.",
	},
}

// textsFor returns the strings for lang, falling back to English.
func textsFor(lang entities.LanguageCode) texts {
	if t, ok := translations[lang]; ok {
		return t
	}
	return translations[entities.DefaultLanguage]
}
