package layout

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/ByLCY/quire/logger"
)

// stubTypesetter 是测试用的等宽排版：每个字符宽 0.5×字号，行高等于字号。
type stubTypesetter struct {
	missing map[rune]bool
}

func (s *stubTypesetter) MeasureText(run TextRun) (TextMetrics, error) {
	n := 0
	for _, r := range run.Text {
		if r != '\n' {
			n++
		}
	}
	return TextMetrics{Width: float64(n) * run.Size / 2, Height: run.Size, Ascent: run.Size * 0.8}, nil
}

func (s *stubTypesetter) HasGlyph(_ FontResource, r rune) bool { return !s.missing[r] }

func (s *stubTypesetter) WrapLines(runs []TextRun, maxWidth float64) ([]TextLine, error) {
	return GreedyWrap(runs, maxWidth, s.MeasureText)
}

var testFont = FontResource{Name: "Body"}

func heightOrFail(t *testing.T, d Drawable) float64 {
	t.Helper()
	h, err := d.Height()
	if err != nil {
		t.Fatalf("计算高度失败: %v", err)
	}
	return h
}

func childHeights(t *testing.T, d Drawable) []float64 {
	t.Helper()
	f, ok := d.(*Frame)
	if !ok {
		t.Fatalf("期望 *Frame，实际 %T", d)
	}
	var hs []float64
	for _, c := range f.children {
		hs = append(hs, heightOrFail(t, c))
	}
	return hs
}

// smallPage 返回 100×100mm、四边 10mm 边距的配置，正文区域为 80×80。
func smallPage() Config {
	return Config{
		Format:     PageFormat{Size: PageSize{Width: 100, Height: 100}, Margin: UniformInsets(10)},
		Typesetter: &stubTypesetter{},
	}
}

func renderDoc(t *testing.T, cfg Config, elements ...Element) *Result {
	t.Helper()
	doc, err := NewDocument(cfg)
	if err != nil {
		t.Fatalf("创建文档失败: %v", err)
	}
	for _, e := range elements {
		doc.Add(e)
	}
	res, err := doc.Render()
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	return res
}

func itemsOfKind(p Page, kind ItemKind) []Item {
	var out []Item
	for _, it := range p.Items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// words 返回 n 个以空格分隔的 w。
func words(n int, w string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = w
	}
	return strings.Join(parts, " ")
}

// captureWarnings 把 WarningLogger 重定向到缓冲区，测试结束时恢复。
func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := logger.WarningLogger
	logger.WarningLogger = log.New(&buf, "", 0)
	t.Cleanup(func() { logger.WarningLogger = old })
	return &buf
}
