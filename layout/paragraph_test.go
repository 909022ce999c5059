package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newTestParagraph 返回字号 10、最大宽度 80 的段落：每行恰好三个 "aaaa"。
func newTestParagraph(text string) *Paragraph {
	p := NewParagraph(&stubTypesetter{})
	p.SpaceBefore, p.SpaceAfter = 2, 3
	p.SetMaxWidth(80)
	p.AddText(text, testFont, 10)
	return p
}

func TestEmptyParagraphHasNoHeight(t *testing.T) {
	p := NewParagraph(&stubTypesetter{})
	if got := heightOrFail(t, p); got != 0 {
		t.Fatalf("空段落高度期望 0，实际 %g", got)
	}
	p.AddText("", testFont, 10)
	if !p.IsEmpty() {
		t.Fatalf("追加空文本后段落仍应为空")
	}
}

func TestParagraphHeight(t *testing.T) {
	p := newTestParagraph(words(30, "aaaa"))
	if got := heightOrFail(t, p); got != 105 {
		t.Fatalf("高度期望 2+10×10+3=105，实际 %g", got)
	}
	p.LineSpacing = 1.5
	if got := heightOrFail(t, p); got != 155 {
		t.Fatalf("1.5 倍行距时高度期望 155，实际 %g", got)
	}
}

func TestParagraphDivide(t *testing.T) {
	text := words(30, "aaaa")
	p := newTestParagraph(text)

	d, err := p.Divide(45, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	head, tail := d.First.(*Paragraph), d.Tail.(*Paragraph)
	if got := heightOrFail(t, head); got != 42 {
		t.Fatalf("前一部分期望 2+4 行=42，实际 %g", got)
	}
	if got := heightOrFail(t, tail); got != 63 {
		t.Fatalf("后一部分期望 6 行+3=63，实际 %g", got)
	}
	if head.SpaceAfter != 0 || head.SpaceBefore != 2 {
		t.Fatalf("前一部分间距不符: before=%g after=%g", head.SpaceBefore, head.SpaceAfter)
	}
	if tail.SpaceBefore != 0 || tail.SpaceAfter != 3 {
		t.Fatalf("后一部分间距不符: before=%g after=%g", tail.SpaceBefore, tail.SpaceAfter)
	}
	if got := head.Text() + tail.Text(); got != text {
		t.Fatalf("切分后文本应保持不变:\n%q\n%q", text, got)
	}
}

func TestParagraphDivideFirstLineDoesNotFit(t *testing.T) {
	p := newTestParagraph(words(6, "aaaa"))
	d, err := p.Divide(11, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	if got := heightOrFail(t, d.First); got != 0 {
		t.Fatalf("放不下第一行时前一部分应为空，实际高度 %g", got)
	}
	if d.Tail != p {
		t.Fatalf("后一部分应为原段落")
	}
}

func TestParagraphDivideKeepsStyledRuns(t *testing.T) {
	p := NewParagraph(&stubTypesetter{})
	p.SetMaxWidth(80)
	p.AddText("aaaa aaaa aaaa ", testFont, 10)
	p.AddRun(TextRun{Text: "bbbb bbbb", Font: FontResource{Name: "Bold"}, Size: 10, Color: Red})

	d, err := p.Divide(p.SpaceBefore+10, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	tail := d.Tail.(*Paragraph)
	runs := tail.Runs()
	if len(runs) != 1 || runs[0].Font.Name != "Bold" || runs[0].Color != Red {
		t.Fatalf("后一部分应保留原样式: %+v", runs)
	}
}

func TestParagraphRemoveLeadingEmptyLines(t *testing.T) {
	p := NewParagraph(&stubTypesetter{})
	p.AddText("\n  \nhello", testFont, 10)
	if err := p.RemoveLeadingEmptyVerticalSpace(); err != nil {
		t.Fatalf("移除开头空白失败: %v", err)
	}
	if p.Text() != "hello" || p.SpaceBefore != 0 {
		t.Fatalf("期望只剩 hello 且段前间距为 0，实际 %q / %g", p.Text(), p.SpaceBefore)
	}
}

func TestAddTextCarefully(t *testing.T) {
	buf := captureWarnings(t)

	p := NewParagraph(&stubTypesetter{missing: map[rune]bool{'€': true}})
	p.AddTextCarefully(TextRun{Text: "5 €", Font: testFont, Size: 10})
	if p.Text() != "5 ?" {
		t.Fatalf("缺失字符应替换为 '?'，实际 %q", p.Text())
	}
	if !strings.Contains(buf.String(), "U+20AC") {
		t.Fatalf("应输出缺字警告，实际 %q", buf.String())
	}
}

func TestParagraphWithoutTypesetter(t *testing.T) {
	p := NewParagraph(nil)
	p.AddText("x", testFont, 10)
	if _, err := p.Height(); err != ErrNoTypesetter {
		t.Fatalf("缺少排版后端时应返回 ErrNoTypesetter，实际 %v", err)
	}
}

// runPerLineTypesetter 自己折行：每个片段单独成一行，不经过 GreedyWrap。
type runPerLineTypesetter struct{ stubTypesetter }

func (s *runPerLineTypesetter) WrapLines(runs []TextRun, _ float64) ([]TextLine, error) {
	var lines []TextLine
	for _, r := range runs {
		m, err := s.MeasureText(r)
		if err != nil {
			return nil, err
		}
		lines = append(lines, TextLine{
			Fragments: []Fragment{{TextRun: r, Width: m.Width}},
			Width:     m.Width,
			Height:    m.Height,
			Ascent:    m.Ascent,
		})
	}
	return lines, nil
}

func runStyles(p *Paragraph) []string {
	var out []string
	for _, r := range p.Runs() {
		out = append(out, r.Font.Name+":"+r.Text)
	}
	return out
}

func TestParagraphDivideWithCustomWrap(t *testing.T) {
	p := NewParagraph(&runPerLineTypesetter{})
	p.SpaceBefore, p.SpaceAfter = 0, 0
	for _, name := range []string{"A", "B", "C"} {
		p.AddRun(TextRun{Text: strings.Repeat(strings.ToLower(name), 3), Font: FontResource{Name: name}, Size: 10})
	}
	d, err := p.Divide(10, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	if diff := cmp.Diff([]string{"A:aaa"}, runStyles(d.First.(*Paragraph))); diff != "" {
		t.Fatalf("前一部分片段不符 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B:bbb", "C:ccc"}, runStyles(d.Tail.(*Paragraph))); diff != "" {
		t.Fatalf("后一部分应保留每个片段的字体 (-want +got):\n%s", diff)
	}
}

func TestParagraphDivideSpaceAfterDoesNotFit(t *testing.T) {
	p := newTestParagraph("aaaa aaaa")
	if got := heightOrFail(t, p); got != 15 {
		t.Fatalf("高度期望 2+10+3=15，实际 %g", got)
	}
	d, err := p.Divide(12, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	head, ok := d.First.(*Paragraph)
	if !ok || head.Text() != "aaaa aaaa" {
		t.Fatalf("前一部分应包含全部文本: %+v", d.First)
	}
	if got := heightOrFail(t, head); got != 12 {
		t.Fatalf("前一部分不应超过剩余高度 12，实际 %g", got)
	}
	if got := heightOrFail(t, d.Tail); got != 3 {
		t.Fatalf("段后间距应留给后一部分，实际 %g", got)
	}
}

// longStyledParagraph 返回跨多页的两种样式文本，包含硬换行。
func longStyledParagraph(ts Typesetter) *Paragraph {
	p := NewParagraph(ts)
	p.SetMaxWidth(80)
	p.AddText(words(25, "alpha")+"\n", testFont, 10)
	p.AddRun(TextRun{Text: words(18, "beta") + " end\nlast line", Font: FontResource{Name: "Bold"}, Size: 10, Color: Red})
	return p
}

func TestParagraphTextSurvivesEveryDivision(t *testing.T) {
	p := longStyledParagraph(&stubTypesetter{})
	want := p.Text()

	var got strings.Builder
	var part Drawable = p
	for i := 0; ; i++ {
		para, ok := part.(*Paragraph)
		if !ok || para.IsEmpty() {
			break
		}
		if i > 50 {
			t.Fatalf("切分没有结束")
		}
		d, err := para.Divide(35, nil, i == 0)
		if err != nil {
			t.Fatalf("第 %d 次切分失败: %v", i+1, err)
		}
		got.WriteString(d.First.(*Paragraph).Text())
		part = d.Tail
	}
	if got.String() != want {
		t.Fatalf("各部分拼接后应等于原文:\nwant %q\ngot  %q", want, got.String())
	}

	res := renderDoc(t, smallPage(), longStyledParagraph(&stubTypesetter{}))
	if len(res.Pages) < 3 {
		t.Fatalf("期望至少 3 页，实际 %d", len(res.Pages))
	}
	var drawn strings.Builder
	for _, page := range res.Pages {
		for _, it := range itemsOfKind(page, ItemText) {
			drawn.WriteString(it.Text.Content)
		}
	}
	if drawn.String() != strings.ReplaceAll(want, "\n", "") {
		t.Fatalf("所有页面上的文字拼接后应等于原文:\nwant %q\ngot  %q", want, drawn.String())
	}
}
