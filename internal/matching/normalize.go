package matching

import (
	"regexp"
	"strings"
)

var (
	parentheticalSpan = regexp.MustCompile(`\([^)]*\)`)
	bracketedSpan     = regexp.MustCompile(`\[[^\]]*\]`)
	versionTail       = regexp.MustCompile(`\s*-\s*(remaster|remix|live).*$`)
	featureTail       = regexp.MustCompile(`\s*\b(feat|ft)\..*$`)
)

// NormalizeTitle canonicalizes a free-text title for comparison: lowercase,
// parenthesized and bracketed spans removed, trailing "- remaster"/"- remix"/
// "- live" version markers removed, everything from "feat."/"ft." onward
// removed, whitespace collapsed. Idempotent; empty in, empty out.
func NormalizeTitle(title string) string {
	t := strings.ToLower(title)
	t = parentheticalSpan.ReplaceAllString(t, " ")
	t = bracketedSpan.ReplaceAllString(t, " ")
	t = versionTail.ReplaceAllString(t, "")
	t = featureTail.ReplaceAllString(t, "")
	return strings.Join(strings.Fields(t), " ")
}
