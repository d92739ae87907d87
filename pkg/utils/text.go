package utils

import (
	"regexp"
	"strings"
)

// translit maps accented Latin letters to ASCII. Covers the Vietnamese
// alphabet plus the common Western European accents.
var translit = map[rune]rune{
	'à': 'a', 'á': 'a', 'ả': 'a', 'ã': 'a', 'ạ': 'a',
	'ă': 'a', 'ằ': 'a', 'ắ': 'a', 'ẳ': 'a', 'ẵ': 'a', 'ặ': 'a',
	'â': 'a', 'ầ': 'a', 'ấ': 'a', 'ẩ': 'a', 'ẫ': 'a', 'ậ': 'a',
	'ä': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ẻ': 'e', 'ẽ': 'e', 'ẹ': 'e',
	'ê': 'e', 'ề': 'e', 'ế': 'e', 'ể': 'e', 'ễ': 'e', 'ệ': 'e',
	'ë': 'e',
	'ì': 'i', 'í': 'i', 'ỉ': 'i', 'ĩ': 'i', 'ị': 'i', 'ï': 'i', 'î': 'i',
	'ò': 'o', 'ó': 'o', 'ỏ': 'o', 'õ': 'o', 'ọ': 'o',
	'ô': 'o', 'ồ': 'o', 'ố': 'o', 'ổ': 'o', 'ỗ': 'o', 'ộ': 'o',
	'ơ': 'o', 'ờ': 'o', 'ớ': 'o', 'ở': 'o', 'ỡ': 'o', 'ợ': 'o',
	'ö': 'o',
	'ù': 'u', 'ú': 'u', 'ủ': 'u', 'ũ': 'u', 'ụ': 'u',
	'ư': 'u', 'ừ': 'u', 'ứ': 'u', 'ử': 'u', 'ữ': 'u', 'ự': 'u',
	'ü': 'u', 'û': 'u',
	'ỳ': 'y', 'ý': 'y', 'ỷ': 'y', 'ỹ': 'y', 'ỵ': 'y',
	'đ': 'd', 'ñ': 'n', 'ç': 'c',
}

var (
	slugSeparators = regexp.MustCompile(`[\s_]+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashRuns   = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a title into a URL slug. Deterministic and idempotent:
// slugifying a slug returns it unchanged.
func Slugify(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if mapped, ok := translit[r]; ok {
			b.WriteRune(mapped)
		} else {
			b.WriteRune(r)
		}
	}

	out := slugSeparators.ReplaceAllString(b.String(), "-")
	out = slugInvalid.ReplaceAllString(out, "")
	out = slugDashRuns.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

var (
	htmlTags   = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// StripHTML removes tags and collapses whitespace runs into single spaces.
func StripHTML(s string) string {
	s = htmlTags.ReplaceAllString(s, " ")
	s = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	).Replace(s)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// TruncateRunes caps s at max runes. A cut string ends in "...", and the
// ellipsis counts toward the cap, so the result never exceeds max runes.
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
