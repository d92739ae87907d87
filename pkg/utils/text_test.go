package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"vietnamese title", "Bé vui Trung Thu 2026", "be-vui-trung-thu-2026"},
		{"dong and horn letters", "Đón năm học mới ở trường", "don-nam-hoc-moi-o-truong"},
		{"already a slug", "thong-bao-nghi-le", "thong-bao-nghi-le"},
		{"punctuation dropped", "Hello, World! (2026)", "hello-world-2026"},
		{"underscores and runs of spaces", "a_b   c", "a-b-c"},
		{"leading and trailing separators", "  --title--  ", "title"},
		{"empty after cleaning", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Bé vui Trung Thu",
		"Thông báo khẩn!!!",
		"mixed CASE with   spaces",
	}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once))
	}
}

func TestStripHTML(t *testing.T) {
	in := `<p>Chào mừng <strong>năm học mới</strong>!</p>
<ul><li>Thứ hai&nbsp;khai giảng</li></ul>`
	got := StripHTML(in)

	assert.Equal(t, "Chào mừng năm học mới ! Thứ hai khai giảng", got)
	assert.NotContains(t, got, "<")
}

func TestStripHTMLEntities(t *testing.T) {
	assert.Equal(t, `bánh & "kẹo" <ngon>`, StripHTML(`bánh &amp; &quot;kẹo&quot; &lt;ngon&gt;`))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", TruncateRunes("short", 10))

	long := strings.Repeat("ă", 20)
	got := TruncateRunes(long, 5)
	assert.Equal(t, strings.Repeat("ă", 2)+"...", got)
	assert.Len(t, []rune(got), 5)
}

func TestTruncateRunesExactFitUntouched(t *testing.T) {
	exact := strings.Repeat("ă", 5)
	assert.Equal(t, exact, TruncateRunes(exact, 5))
}
