package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lineTexts(lines []TextLine) []string {
	var out []string
	for _, l := range lines {
		out = append(out, l.Text())
	}
	return out
}

func wrapOrFail(t *testing.T, runs []TextRun, width float64) []TextLine {
	t.Helper()
	ts := &stubTypesetter{}
	lines, err := GreedyWrap(runs, width, ts.MeasureText)
	if err != nil {
		t.Fatalf("折行失败: %v", err)
	}
	return lines
}

func TestGreedyWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"soft breaks keep spaces", "aa bb cc", 25, []string{"aa bb ", "cc"}},
		{"hard break", "aa\nbb", 100, []string{"aa\n", "bb"}},
		{"blank line", "aa\n\nbb", 100, []string{"aa\n", "\n", "bb"}},
		{"trailing newline", "aa\n", 100, []string{"aa\n"}},
		{"long word is split", "abcdefgh", 15, []string{"abc", "def", "gh"}},
		{"unlimited width", "aa bb cc", 0, []string{"aa bb cc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := wrapOrFail(t, []TextRun{{Text: tt.text, Font: testFont, Size: 10}}, tt.width)
			if diff := cmp.Diff(tt.want, lineTexts(lines)); diff != "" {
				t.Fatalf("折行结果不符 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGreedyWrapWidthExcludesTrailingSpace(t *testing.T) {
	lines := wrapOrFail(t, []TextRun{{Text: "aa bb cc", Font: testFont, Size: 10}}, 25)
	if lines[0].Width != 25 {
		t.Fatalf("第一行宽度期望 25（不含行尾空格），实际 %g", lines[0].Width)
	}
	if lines[0].HardBreak || lines[1].HardBreak {
		t.Fatalf("软换行不应标记为硬换行")
	}
}

func TestGreedyWrapMixedRuns(t *testing.T) {
	runs := []TextRun{
		{Text: "aa ", Font: testFont, Size: 10},
		{Text: "bb", Font: testFont, Size: 20},
	}
	lines := wrapOrFail(t, runs, 100)
	if len(lines) != 1 || len(lines[0].Fragments) != 2 {
		t.Fatalf("期望一行两个片段，实际 %+v", lines)
	}
	if lines[0].Height != 20 || lines[0].Ascent != 16 {
		t.Fatalf("行高应取最大字号: height=%g ascent=%g", lines[0].Height, lines[0].Ascent)
	}
}

func TestGreedyWrapIsPrefixStable(t *testing.T) {
	runs := []TextRun{{Text: words(20, "abc") + " " + "abcdefghijklmnop", Font: testFont, Size: 10}}
	lines := wrapOrFail(t, runs, 42)
	for n := 1; n < len(lines); n++ {
		head := wrapOrFail(t, linesToRuns(lines[:n]), 42)
		tail := wrapOrFail(t, linesToRuns(lines[n:]), 42)
		if diff := cmp.Diff(lineTexts(lines), append(lineTexts(head), lineTexts(tail)...)); diff != "" {
			t.Fatalf("在第 %d 行切分后重新折行结果不同 (-want +got):\n%s", n, diff)
		}
	}
}
