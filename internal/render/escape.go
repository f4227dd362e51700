// Package render formats quotes for Telegram MarkdownV2.
package render

import "strings"

// SafeText is text that is already escaped for MarkdownV2 and can be sent
// as is.
type SafeText string

func (s SafeText) String() string { return string(s) }

// Plain strips the markup from s so it reads correctly without a parse
// mode. Links become "text (url)".
func (s SafeText) Plain() string {
	var b strings.Builder
	b.Grow(len(s))
	code, url := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case url:
			b.WriteByte(c)
			url = c != ')'
		case c == '`':
			code = !code
		case code:
			b.WriteByte(c)
		case c == ']' && i+1 < len(s) && s[i+1] == '(':
			b.WriteString(" (")
			i++
			url = true
		case c == '*', c == '_', c == '~', c == '[', c == ']':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// markdownSpecial is every character MarkdownV2 requires escaping outside
// of code spans.
const markdownSpecial = "_*[]()~`>#+-=|{}.!\\"

// codeSpecial is every character that must be escaped inside code spans.
const codeSpecial = "`\\"

// linkSpecial is every character that must be escaped inside a link URL.
const linkSpecial = ")\\"

// Escape escapes s for use in plain MarkdownV2 text. A backslash that
// already escapes a special character is kept, so escaping twice is a no-op.
func Escape(s string) SafeText { return SafeText(escape(s, markdownSpecial)) }

// EscapeCode escapes s for use inside a `code` or ```pre``` span.
func EscapeCode(s string) SafeText { return SafeText(escape(s, codeSpecial)) }

func escape(s, special string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && strings.IndexByte(special, s[i+1]) >= 0 {
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if strings.IndexByte(special, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Code wraps s in an inline code span.
func Code(s string) SafeText { return "`" + EscapeCode(s) + "`" }

// Bold wraps s in bold markers.
func Bold(s string) SafeText { return "*" + Escape(s) + "*" }

// Italic wraps s in italic markers.
func Italic(s string) SafeText { return "_" + Escape(s) + "_" }

// Link renders an inline link.
func Link(text, url string) SafeText {
	return "[" + Escape(text) + "](" + SafeText(escape(url, linkSpecial)) + ")"
}

// Join concatenates lines with newlines.
func Join(lines ...SafeText) SafeText {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = string(l)
	}
	return SafeText(strings.Join(parts, "\n"))
}
