package layout

// ShapeKind 描述边框形状。
type ShapeKind int

const (
	RectShape ShapeKind = iota
	RoundRectShape
)

// Shape 是可以描边或填充的形状，尺寸由调用方给出。
type Shape struct {
	Kind   ShapeKind
	Radius float64 // 圆角半径（mm），仅用于 RoundRectShape
}

// Stroke 描述线宽与虚线样式。
type Stroke struct {
	Width float64   // mm
	Dash  []float64 // 为空表示实线
}

// Surface 是单个页面的绘制后端，坐标为页面坐标（mm，左上角为原点）。
type Surface interface {
	FillShape(shape Shape, box Box, color Color) error
	StrokeShape(shape Shape, box Box, stroke Stroke, color Color) error
	DrawLine(from, to Position, stroke Stroke, color Color) error
	// DrawText 在 ul 处绘制单行文本，baseline 为基线的 y 坐标。
	DrawText(ul Position, baseline float64, run TextRun, width, height float64) error
	DrawImage(src string, box Box) error
	// PushClip 把后续绘制限制在 box 与当前裁剪区域的交集内。
	PushClip(box Box) error
	PopClip() error
}

// PageSurface 是一个打开的页面。
type PageSurface interface {
	Surface
	// Close 结束页面；rotation 为顺时针旋转角度（90 的倍数）。
	Close(rotation int) error
}

// PageSink 按顺序接收页面，例如 Recorder。
type PageSink interface {
	OpenPage(index int, width, height float64) (PageSurface, error)
}
