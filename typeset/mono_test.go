package typeset

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/quire/layout"
)

func TestMonoMeasure(t *testing.T) {
	m := NewMono()
	cases := []struct {
		text  string
		width float64
	}{
		{"abcd", 4 * 0.6 * 10},
		{"中文", 4 * 0.6 * 10},
		{"a\tb", 6 * 0.6 * 10},
		{"ab\n", 2 * 0.6 * 10},
	}
	for _, c := range cases {
		got, err := m.MeasureText(layout.TextRun{Text: c.text, Size: 10})
		if err != nil {
			t.Fatalf("测量失败: %v", err)
		}
		want := layout.TextMetrics{Width: c.width, Height: 12, Ascent: 8}
		if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b float64) bool { return a-b < 1e-9 && b-a < 1e-9 })); diff != "" {
			t.Fatalf("%q 测量结果不符 (-want +got):\n%s", c.text, diff)
		}
	}
}

func TestMonoWrap(t *testing.T) {
	m := NewMono()
	lines, err := m.WrapLines([]layout.TextRun{{Text: "aa bb cc", Size: 10}}, 31)
	if err != nil {
		t.Fatalf("换行失败: %v", err)
	}
	var got []string
	for _, l := range lines {
		got = append(got, l.Text())
	}
	if diff := cmp.Diff([]string{"aa bb ", "cc"}, got); diff != "" {
		t.Fatalf("换行结果不符 (-want +got):\n%s", diff)
	}
}

func TestMonoHasGlyph(t *testing.T) {
	m := NewMono()
	if !m.HasGlyph(layout.FontResource{}, '€') {
		t.Fatalf("可打印字符应有字形")
	}
	if m.HasGlyph(layout.FontResource{}, '\x00') {
		t.Fatalf("控制字符不应有字形")
	}
}
