package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

const (
	rlm = "\u200F"

	// Telegram rejects longer message texts.
	maxMessageLength = 4096
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// directional anchors every line of an already formatted text to the
// writing direction of the layout. Telegram clients pick the paragraph
// direction from the first strong character, so RTL lines get a leading RLM.
func directional(layout entities.LayoutDirectives, text string) string {
	if !layout.Mirrored() || text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = rlm + line
	}
	return strings.Join(lines, "\n")
}

// chunkText splits blocks into messages no longer than limit, never
// splitting a block unless the block alone is too long.
func chunkText(blocks []string, sep string, limit int) []string {
	var (
		chunks []string
		sb     strings.Builder
	)

	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
	}

	for _, block := range blocks {
		if sb.Len() > 0 && sb.Len()+len(sep)+len(block) > limit {
			flush()
		}
		for len(block) > limit {
			flush()
			cut := cutPoint(block, limit)
			chunks = append(chunks, block[:cut])
			block = block[cut:]
		}
		if sb.Len() > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(block)
	}
	flush()

	return chunks
}

// cutPoint returns the last newline before limit, or limit moved back to a
// rune boundary.
func cutPoint(s string, limit int) int {
	if i := strings.LastIndexByte(s[:limit], '\n'); i > 0 {
		return i + 1
	}
	for limit > 0 && !isRuneStart(s[limit]) {
		limit--
	}
	return limit
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
