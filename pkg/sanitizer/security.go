package sanitizer

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptTagRegex   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	eventHandlerRe   = regexp.MustCompile(`(?i)\s*on\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	jsProtocolRegex  = regexp.MustCompile(`(?i)(javascript|vbscript)\s*:`)
	cssExpressionRe  = regexp.MustCompile(`(?i)expression\s*\(`)
	nullByteReplacer = strings.NewReplacer("\x00", "")
)

// EscapeHTML escapes HTML special characters to prevent XSS attacks.
// It is the default string encoder and is safe to apply to any text.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// UnescapeHTML unescapes HTML entities.
func UnescapeHTML(s string) string {
	return html.UnescapeString(s)
}

// StripScriptTags removes all <script> elements together with their content.
func StripScriptTags(s string) string {
	return scriptTagRegex.ReplaceAllString(s, "")
}

// RemoveJavaScriptEvents removes inline event handlers and script URL schemes.
func RemoveJavaScriptEvents(s string) string {
	result := eventHandlerRe.ReplaceAllString(s, "")
	result = jsProtocolRegex.ReplaceAllString(result, "")
	return cssExpressionRe.ReplaceAllString(result, "")
}

// RemoveNullBytes removes NUL characters, which some browsers silently drop
// and which can be used to split tag names.
func RemoveNullBytes(s string) string {
	return nullByteReplacer.Replace(s)
}

// PreventXSS strips active content and then escapes what is left.
// Unlike EscapeHTML it loses information, so it is opt-in.
func PreventXSS(s string) string {
	return preventXSS(s)
}

var preventXSS = Chain(
	RemoveNullBytes,
	StripScriptTags,
	RemoveJavaScriptEvents,
	EscapeHTML,
)
