package notify

import (
	"fmt"
	"strings"
)

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// EscapeMarkdown escapes characters that chat renderers treat as markup.
// Identifier values are user-controlled and go inside formatted messages.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// RenderMarkdown produces the chat-facing alert text for a payload.
func RenderMarkdown(p *AlertPayload) string {
	reporter := "a user"
	if p.Reporter.Username != "" {
		reporter = "@" + EscapeMarkdown(p.Reporter.Username)
	} else if p.Reporter.UserID != 0 {
		reporter = fmt.Sprintf("user %d", p.Reporter.UserID)
	}

	var b strings.Builder
	b.WriteString("🚨 *DOUBLE PAYMENT DETECTED* 🚨\n\n")
	b.WriteString("⚠️ *HOLD - DO NOT PROCEED* ⚠️\n\n")
	fmt.Fprintf(&b, "📱 *Identifier:* `%s`\n", EscapeMarkdown(p.Identifier))
	fmt.Fprintf(&b, "🏷 *Type:* %s\n", p.IdentifierType)
	fmt.Fprintf(&b, "📅 *First Added:* %s\n", p.FirstSeen.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "👤 *Reported by:* %s\n\n", reporter)
	b.WriteString("*Please verify this transaction before proceeding with payment.*\n")
	b.WriteString("_This identifier has been previously processed._")
	return b.String()
}
