package engine

import (
	"regexp"
	"strings"
)

// User-Agent strings used across HTTP clients.
const (
	UserAgentBot    = "GoBlender/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

var (
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// entityReplacer covers the entity set YouTube actually emits in timedtext
// payloads. Not a general HTML unescaper on purpose: caption text containing
// a literal "&copy;" should stay as-is.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// StripTags removes HTML/XML tags, leaving inner text.
func StripTags(s string) string {
	return htmlTagRe.ReplaceAllString(s, "")
}

// DecodeEntities decodes the caption entity set.
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// CollapseSpace folds runs of whitespace (including newlines) into single
// spaces and trims the ends.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// CleanCaption normalizes one caption payload: tags stripped, entities
// decoded, whitespace collapsed. Tag stripping runs first so markup inside
// the node never survives as literal text.
func CleanCaption(s string) string {
	return CollapseSpace(DecodeEntities(StripTags(s)))
}

// Truncate returns the first n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
