package layout

// Ruler 是横跨最大宽度的水平线，高度等于线宽。
type Ruler struct {
	Stroke Stroke
	Color  Color

	maxWidth float64
}

var _ WidthRespecting = (*Ruler)(nil)

// NewRuler 创建水平线。
func NewRuler(stroke Stroke, color Color) *Ruler {
	return &Ruler{Stroke: stroke, Color: color, maxWidth: -1}
}

func (r *Ruler) MaxWidth() float64     { return r.maxWidth }
func (r *Ruler) SetMaxWidth(w float64) { r.maxWidth = w }

func (r *Ruler) Width() (float64, error)  { return max(r.maxWidth, 0), nil }
func (r *Ruler) Height() (float64, error) { return r.Stroke.Width, nil }

func (r *Ruler) Draw(ctx *RenderContext, ul Position) error {
	w, _ := r.Width()
	if r.Stroke.Width <= 0 || w <= 0 {
		return nil
	}
	y := ul.Y + r.Stroke.Width/2
	return ctx.DrawLine(Position{X: ul.X, Y: y}, Position{X: ul.X + w, Y: y}, r.Stroke, r.Color)
}
