package canvasrenderer

import (
	"strings"

	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/quire/layout"
)

// MeasureText 实现 layout.Typesetter：宽度来自 canvas 的字体面，单位 mm。
func (r *Renderer) MeasureText(run layout.TextRun) (layout.TextMetrics, error) {
	face, err := r.fontFace(run.Font, toPt(run.Size), run.Color)
	if err != nil {
		return layout.TextMetrics{}, err
	}
	text := strings.NewReplacer("\r", "", "\n", "").Replace(run.Text)
	m := face.Metrics()
	height := m.LineHeight
	if height <= 0 {
		height = run.Size
	}
	return layout.TextMetrics{Width: face.TextWidth(text), Height: height, Ascent: m.Ascent}, nil
}

// HasGlyph 报告字体的 cmap 中是否包含 ch；字体无法解析时返回 true，由渲染阶段报错。
func (r *Renderer) HasGlyph(font layout.FontResource, ch rune) bool {
	f := r.glyphFont(font)
	if f == nil {
		return true
	}
	var buf sfnt.Buffer
	idx, err := f.GlyphIndex(&buf, ch)
	return err == nil && idx != 0
}

// WrapLines 使用 layout 的贪心折行，测量交给 MeasureText。
func (r *Renderer) WrapLines(runs []layout.TextRun, maxWidth float64) ([]layout.TextLine, error) {
	return layout.GreedyWrap(runs, maxWidth, r.MeasureText)
}
