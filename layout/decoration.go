package layout

import (
	"maps"

	"github.com/ByLCY/quire/binding"
)

// Decoration 是页眉或页脚中的单行文本，支持 ${page} 与文档数据插值。
type Decoration struct {
	Text  string
	Font  FontResource
	Size  float64 // mm
	Color Color
	Align Alignment
}

// decorations 在页面关闭前把页眉页脚画进预留区域。
type decorations struct {
	header *Decoration
	footer *Decoration
	data   map[string]any
}

func (d *decorations) BeforePage(*RenderContext) error { return nil }

func (d *decorations) AfterPage(ctx *RenderContext) error {
	scope := maps.Clone(d.data)
	if scope == nil {
		scope = map[string]any{}
	}
	scope["page"] = ctx.PageIndex() + 1

	ul, lr := ctx.UpperLeft(), ctx.LowerRight()
	if d.header != nil {
		band := Box{X: ul.X, Y: 0, Width: ctx.Width(), Height: ul.Y}
		if err := d.header.draw(ctx, band, scope); err != nil {
			return err
		}
	}
	if d.footer != nil {
		band := Box{X: ul.X, Y: lr.Y, Width: ctx.Width(), Height: ctx.PageHeight() - lr.Y}
		if err := d.footer.draw(ctx, band, scope); err != nil {
			return err
		}
	}
	return nil
}

// draw 在 band 中垂直居中绘制文本，不影响正文的排版位置。
func (dec *Decoration) draw(ctx *RenderContext, band Box, scope map[string]any) error {
	text := binding.Interpolate(dec.Text, scope)
	if text == "" || band.Height <= 0 {
		return nil
	}
	ts := ctx.Typesetter()
	if ts == nil {
		return ErrNoTypesetter
	}
	run := TextRun{Text: text, Font: dec.Font, Size: dec.Size, Color: dec.Color}
	m, err := ts.MeasureText(run)
	if err != nil {
		return err
	}
	x := band.X
	switch dec.Align {
	case AlignCenter:
		x += (band.Width - m.Width) / 2
	case AlignRight:
		x += band.Width - m.Width
	}
	y := band.Y + (band.Height-m.Height)/2
	return ctx.Surface().DrawText(Position{X: x, Y: y}, y+m.Ascent, run, m.Width, m.Height)
}
