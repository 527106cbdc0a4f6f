package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	noticePolicyOnce sync.Once
	noticePolicy     *bluemonday.Policy
)

// SanitizeNotice strips everything but basic inline formatting from
// operator-supplied notice HTML.
func SanitizeNotice(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(noticeSanitizer().Sanitize(trimmed))
}

func noticeSanitizer() *bluemonday.Policy {
	noticePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "br", "p", "span", "small", "code")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowElements("a")
		policy.AllowURLSchemes("https", "mailto", "tel")
		policy.RequireNoFollowOnLinks(true)
		policy.AllowAttrs("class").OnElements("span", "p", "small")
		noticePolicy = policy
	})
	return noticePolicy
}
