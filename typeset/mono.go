// Package typeset 提供不依赖字体文件的排版后端。
package typeset

import (
	"unicode"

	"github.com/muesli/reflow/ansi"

	"github.com/ByLCY/quire/layout"
)

// Mono 以固定字宽测量文本：每个字符占 CellWidth×字号，东亚宽字符占两格。
// 适合测试与纯文本预览，结果不依赖字体文件。
type Mono struct {
	CellWidth  float64 // 单格宽度与字号之比
	LineHeight float64 // 行高与字号之比
	Ascent     float64 // 基线以上高度与字号之比
}

var _ layout.Typesetter = (*Mono)(nil)

// NewMono 返回常用比例的等宽排版后端。
func NewMono() *Mono {
	return &Mono{CellWidth: 0.6, LineHeight: 1.2, Ascent: 0.8}
}

// MeasureText 测量单行文本，换行符不占宽度。
func (m *Mono) MeasureText(run layout.TextRun) (layout.TextMetrics, error) {
	cells := 0
	for _, r := range run.Text {
		if r == '\n' || r == '\r' {
			continue
		}
		if r == '\t' {
			cells += 4
			continue
		}
		cells += ansi.PrintableRuneWidth(string(r))
	}
	return layout.TextMetrics{
		Width:  float64(cells) * m.CellWidth * run.Size,
		Height: m.LineHeight * run.Size,
		Ascent: m.Ascent * run.Size,
	}, nil
}

// HasGlyph 对所有可打印字符返回 true。
func (m *Mono) HasGlyph(_ layout.FontResource, r rune) bool {
	return unicode.IsPrint(r) || unicode.IsSpace(r)
}

func (m *Mono) WrapLines(runs []layout.TextRun, maxWidth float64) ([]layout.TextLine, error) {
	return layout.GreedyWrap(runs, maxWidth, m.MeasureText)
}
