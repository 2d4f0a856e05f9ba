// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	// tagPattern matches something that looks like an opening or closing tag.
	tagPattern = regexp.MustCompile(`<\s*/?\s*[a-zA-Z][^>]*>`)
)

func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.AllowAttrs("class").OnElements("table", "td", "th", "code", "pre")
	})
	return policy
}

// IsPlainText reports whether s contains no HTML tags. A bare "<" or ">"
// (as in "5 < 10") does not count.
func IsPlainText(s string) bool {
	return !tagPattern.MatchString(s)
}

// Sanitize strips scripts, event handlers, iframes and unsafe URLs from
// description markup. Plain text is returned unchanged so "A & B" is not
// rewritten to "A &amp; B".
func Sanitize(s string) string {
	if s == "" || IsPlainText(s) {
		return s
	}
	return ugc().Sanitize(s)
}
