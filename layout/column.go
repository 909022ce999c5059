package layout

import "fmt"

// ColumnLayout 把正文区域分成等宽的栏，每栏内的排版与 VerticalLayout 相同。
// 一栏写满后切到下一栏，所有栏写满后换页。
type ColumnLayout struct {
	VerticalLayout
	Columns int
	Spacing float64 // 栏间距（mm）

	index   int
	offsetY *float64 // 各栏起始位置相对正文顶部的偏移，首次绘制时确定
}

var _ Layout = (*ColumnLayout)(nil)

// NewColumnLayout 创建 columns 栏、栏间距为 spacing 的布局。
func NewColumnLayout(columns int, spacing float64) (*ColumnLayout, error) {
	l := &ColumnLayout{Columns: columns, Spacing: spacing}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *ColumnLayout) validate() error {
	if l.Columns < 1 {
		return fmt.Errorf("%w: column layout needs at least one column, got %d", ErrInvalidConfig, l.Columns)
	}
	if l.Spacing < 0 {
		return fmt.Errorf("%w: negative column spacing %.2f", ErrInvalidConfig, l.Spacing)
	}
	return nil
}

// Column 返回当前栏的下标。
func (l *ColumnLayout) Column() int { return l.index }

func (l *ColumnLayout) targetWidth(ctx *RenderContext) float64 {
	return (ctx.Width() - float64(l.Columns-1)*l.Spacing) / float64(l.Columns)
}

// turnPage 切到下一栏的起始位置，栏位用尽时换页。
func (l *ColumnLayout) turnPage(ctx *RenderContext) error {
	l.captureOffset(ctx)
	l.index++
	if l.index >= l.Columns {
		return l.newPage(ctx)
	}
	ctx.ResetPositionToUpperLeft()
	ctx.MovePositionBy(float64(l.index)*(l.targetWidth(ctx)+l.Spacing), *l.offsetY)
	ctx.markOrigin()
	return nil
}

func (l *ColumnLayout) newPage(ctx *RenderContext) error {
	if err := ctx.NewPage(); err != nil {
		return err
	}
	l.index = 0
	zero := 0.0
	l.offsetY = &zero
	return nil
}

func (l *ColumnLayout) captureOffset(ctx *RenderContext) {
	if l.offsetY == nil {
		off := ctx.CurrentPosition().Y - ctx.UpperLeft().Y
		l.offsetY = &off
	}
}

// RenderWithHint 处理分栏控制与可绘制元素。
func (l *ColumnLayout) RenderWithHint(ctx *RenderContext, e Element, hint LayoutHint) (bool, error) {
	if err := l.validate(); err != nil {
		return false, err
	}
	switch v := e.(type) {
	case Control:
		switch v {
		case NewPage:
			return true, l.newPage(ctx)
		case NewColumn:
			return true, l.turnPage(ctx)
		}
		return false, nil
	case Drawable:
		l.captureOffset(ctx)
		return true, renderDrawable(l, ctx, v, hint)
	}
	return false, nil
}
