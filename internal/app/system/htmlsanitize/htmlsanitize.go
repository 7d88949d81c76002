// Package htmlsanitize cleans author-supplied HTML and links before they are
// placed on a public landing page. It uses bluemonday to strip potentially
// dangerous markup while preserving safe formatting.
package htmlsanitize

import (
	"html/template"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy is the shared bluemonday policy for section rich text.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// UGC (User Generated Content) policy as base
		policy = bluemonday.UGCPolicy()

		// Tables for comparison-style content blocks
		policy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		policy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")

		// Text formatting and figures
		policy.AllowElements("u", "s", "sub", "sup", "mark", "figure", "figcaption")

		// Authors style content blocks with utility classes
		policy.AllowAttrs("class").Globally()
		policy.AllowDataAttributes()
	})
	return policy
}

// Sanitize cleans HTML input, removing potentially dangerous elements and attributes.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getPolicy().Sanitize(html)
}

// SanitizeToHTML sanitizes HTML input and returns it as template.HTML,
// which is safe to render directly in Go templates without escaping.
func SanitizeToHTML(html string) template.HTML {
	return template.HTML(Sanitize(html))
}

// IsPlainText checks if content appears to be plain text (no HTML tags).
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	// Valid HTML tags require both characters
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML escapes text, converts newlines to <br> and wraps it in <p>.
func PlainTextToHTML(text string) string {
	if text == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay takes content (which may be plain text or HTML) and
// returns sanitized template.HTML ready for rendering.
func PrepareForDisplay(content string) template.HTML {
	if content == "" {
		return ""
	}
	if IsPlainText(content) {
		return template.HTML(PlainTextToHTML(content))
	}
	return SanitizeToHTML(content)
}

// SafeURL returns the trimmed link when it is relative, an in-page anchor,
// or uses http, https, mailto or tel. Anything else yields "".
func SafeURL(raw string) string {
	link := strings.TrimSpace(raw)
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "":
		if strings.HasPrefix(link, "//") {
			return ""
		}
		return link
	case "http", "https", "mailto", "tel":
		return link
	default:
		return ""
	}
}
