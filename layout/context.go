package layout

import (
	"errors"
	"fmt"

	"github.com/ByLCY/quire/logger"
)

// Layout 是分页策略，例如 VerticalLayout 与 ColumnLayout。
type Layout interface {
	// RenderWithHint 尝试处理元素，返回 false 表示交由 RenderContext 处理。
	RenderWithHint(ctx *RenderContext, e Element, hint LayoutHint) (bool, error)
}

// RenderListener 在页面打开与关闭时被调用，用于页眉、页脚等装饰。
type RenderListener interface {
	BeforePage(ctx *RenderContext) error
	AfterPage(ctx *RenderContext) error
}

// RenderContext 保存一次渲染过程中的页面与光标状态。
//
// 页面严格按顺序打开、绘制、关闭；关闭后的页面不再接受绘制。
type RenderContext struct {
	sink       PageSink
	surface    PageSurface
	pageIndex  int
	format     PageFormat
	nextFormat *PageFormat
	pageWidth  float64
	pageHeight float64

	position Position
	origin   Position // 当前页（栏）内容起点，用于判断是否位于顶部
	marked   *Position
	maxPos   Position

	layout      Layout
	listeners   []RenderListener
	showMargins bool
	ts          Typesetter
	closed      bool
}

func newRenderContext(sink PageSink, format PageFormat, ts Typesetter, listeners []RenderListener, showMargins bool) *RenderContext {
	return &RenderContext{
		sink:        sink,
		format:      format,
		ts:          ts,
		listeners:   listeners,
		showMargins: showMargins,
		layout:      &VerticalLayout{},
	}
}

// PageIndex 返回当前页下标（从 0 开始）。
func (c *RenderContext) PageIndex() int { return c.pageIndex }

// PageFormat 返回当前页使用的格式。
func (c *RenderContext) PageFormat() PageFormat { return c.format }

func (c *RenderContext) PageWidth() float64  { return c.pageWidth }
func (c *RenderContext) PageHeight() float64 { return c.pageHeight }

// UpperLeft 返回正文区域左上角。
func (c *RenderContext) UpperLeft() Position {
	return Position{X: c.format.Margin.Left, Y: c.format.contentTop()}
}

// LowerRight 返回正文区域右下角。
func (c *RenderContext) LowerRight() Position {
	return Position{X: c.pageWidth - c.format.Margin.Right, Y: c.format.contentBottom(c.pageHeight)}
}

// Width 返回正文区域宽度。
func (c *RenderContext) Width() float64 {
	return c.pageWidth - c.format.Margin.Left - c.format.Margin.Right
}

// Height 返回正文区域高度。
func (c *RenderContext) Height() float64 {
	return c.format.contentBottom(c.pageHeight) - c.format.contentTop()
}

// RemainingHeight 返回光标到正文底部的距离。
func (c *RenderContext) RemainingHeight() float64 {
	return c.format.contentBottom(c.pageHeight) - c.position.Y
}

func (c *RenderContext) CurrentPosition() Position { return c.position }

// MarkedPosition 返回 MarkPosition 记录的位置。
func (c *RenderContext) MarkedPosition() (Position, bool) {
	if c.marked == nil {
		return Position{}, false
	}
	return *c.marked, true
}

// MaxPosition 返回本页已绘制内容到达的最右、最下位置。
func (c *RenderContext) MaxPosition() Position { return c.maxPos }

// IsTopOfPage 报告光标是否仍位于当前页（或当前栏）的起点。
func (c *RenderContext) IsTopOfPage() bool { return c.position == c.origin }

// IsPageStart 报告光标是否位于正文区域左上角且尚未绘制内容。
// 与 IsTopOfPage 不同，分栏后第二栏的起点不算页面起点。
func (c *RenderContext) IsPageStart() bool {
	return c.IsTopOfPage() && c.position == c.UpperLeft()
}

func (c *RenderContext) Typesetter() Typesetter { return c.ts }

// Surface 返回当前页的绘制面，绘制不会更新 MaxPosition。
func (c *RenderContext) Surface() Surface { return c.surface }

func (c *RenderContext) Layout() Layout { return c.layout }

// SetLayout 切换分页策略，并把光标移到已绘制内容的下方。
func (c *RenderContext) SetLayout(l Layout) {
	c.layout = l
	c.resetPositionToLeftEndOfPage()
	logger.ProgressLogger.Printf("page %d: switched to %T", c.pageIndex+1, l)
}

func (c *RenderContext) SetPosition(p Position) { c.position = p }

func (c *RenderContext) MovePositionBy(dx, dy float64) {
	c.position = c.position.Add(dx, dy)
}

// ResetPositionToUpperLeft 把光标移回正文左上角，并视为页面顶部。
func (c *RenderContext) ResetPositionToUpperLeft() {
	c.position = c.UpperLeft()
	c.origin = c.position
}

// ResetPositionToLeft 只把光标移回左边距。
func (c *RenderContext) ResetPositionToLeft() {
	c.position.X = c.UpperLeft().X
}

// resetPositionToLeftEndOfPage 把光标移到左边距、已绘制内容的最下方。
func (c *RenderContext) resetPositionToLeftEndOfPage() {
	c.position = Position{X: c.UpperLeft().X, Y: c.maxPos.Y}
}

// markOrigin 把当前位置记为新的顶部（分栏切换时使用）。
func (c *RenderContext) markOrigin() { c.origin = c.position }

// NewPage 关闭当前页并打开下一页。
func (c *RenderContext) NewPage() error {
	if c.closed {
		return ErrNoPage
	}
	if c.surface != nil {
		if err := c.ClosePage(); err != nil {
			return err
		}
		c.pageIndex++
	}
	if c.nextFormat != nil {
		c.format = *c.nextFormat
		c.nextFormat = nil
	}
	if err := c.format.Validate(); err != nil {
		return err
	}
	c.pageWidth, c.pageHeight = c.format.Dimensions()
	surface, err := c.sink.OpenPage(c.pageIndex, c.pageWidth, c.pageHeight)
	if err != nil {
		return fmt.Errorf("open page %d: %w", c.pageIndex+1, err)
	}
	c.surface = surface
	c.ResetPositionToUpperLeft()
	c.maxPos = c.position
	for _, l := range c.listeners {
		if err := l.BeforePage(c); err != nil {
			return err
		}
	}
	if c.showMargins {
		ul := c.UpperLeft()
		box := Box{X: ul.X, Y: ul.Y, Width: c.Width(), Height: c.Height()}
		if err := c.surface.StrokeShape(Shape{}, box, Stroke{Width: 0.5 * PtToMm}, Red); err != nil {
			return err
		}
	}
	logger.ProgressLogger.Printf("page %d: opened %.1fx%.1fmm", c.pageIndex+1, c.pageWidth, c.pageHeight)
	return nil
}

// ClosePage 绘制页面装饰并结束当前页；没有打开的页面时什么也不做。
func (c *RenderContext) ClosePage() error {
	if c.surface == nil {
		return nil
	}
	var errs []error
	for _, l := range c.listeners {
		if err := l.AfterPage(c); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, c.surface.Close(c.format.Rotation))
	c.surface = nil
	return errors.Join(errs...)
}

// Close 结束渲染：关闭当前页，之后不再打开新页。
func (c *RenderContext) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.ClosePage()
}

// Render 把元素交给当前布局；布局不处理时再尝试控制元素、页面格式与布局切换。
func (c *RenderContext) Render(e Element, hint LayoutHint) error {
	if c.surface == nil {
		return ErrNoPage
	}
	if c.layout != nil {
		ok, err := c.layout.RenderWithHint(c, e, hint)
		if err != nil || ok {
			return err
		}
	}
	switch v := e.(type) {
	case Control:
		if v == NewPage {
			return c.NewPage()
		}
	case PositionControl:
		return v.applyTo(c)
	case PageFormat:
		c.nextFormat = &v
		return nil
	case *PageFormat:
		if v != nil {
			f := *v
			c.nextFormat = &f
			return nil
		}
	case Layout:
		c.SetLayout(v)
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedElement, e)
}

// Drawn 记录一次绘制占用的区域，更新 MaxPosition。
func (c *RenderContext) Drawn(box Box) {
	c.maxPos.X = max(c.maxPos.X, box.X+box.Width)
	c.maxPos.Y = max(c.maxPos.Y, box.Y+box.Height)
}

func (c *RenderContext) page() (PageSurface, error) {
	if c.surface == nil {
		return nil, ErrNoPage
	}
	return c.surface, nil
}

func (c *RenderContext) FillShape(shape Shape, box Box, color Color) error {
	s, err := c.page()
	if err != nil {
		return err
	}
	if err := s.FillShape(shape, box, color); err != nil {
		return err
	}
	c.Drawn(box)
	return nil
}

func (c *RenderContext) StrokeShape(shape Shape, box Box, stroke Stroke, color Color) error {
	s, err := c.page()
	if err != nil {
		return err
	}
	if err := s.StrokeShape(shape, box, stroke, color); err != nil {
		return err
	}
	c.Drawn(box)
	return nil
}

func (c *RenderContext) DrawLine(from, to Position, stroke Stroke, color Color) error {
	s, err := c.page()
	if err != nil {
		return err
	}
	if err := s.DrawLine(from, to, stroke, color); err != nil {
		return err
	}
	c.Drawn(Box{X: min(from.X, to.X), Y: min(from.Y, to.Y), Width: abs(to.X - from.X), Height: abs(to.Y - from.Y)})
	return nil
}

func (c *RenderContext) DrawText(ul Position, baseline float64, run TextRun, width, height float64) error {
	s, err := c.page()
	if err != nil {
		return err
	}
	if err := s.DrawText(ul, baseline, run, width, height); err != nil {
		return err
	}
	c.Drawn(Box{X: ul.X, Y: ul.Y, Width: width, Height: height})
	return nil
}

func (c *RenderContext) DrawImage(src string, box Box) error {
	s, err := c.page()
	if err != nil {
		return err
	}
	if err := s.DrawImage(src, box); err != nil {
		return err
	}
	c.Drawn(box)
	return nil
}

func (c *RenderContext) PushClip(box Box) error {
	s, err := c.page()
	if err != nil {
		return err
	}
	return s.PushClip(box)
}

func (c *RenderContext) PopClip() error {
	s, err := c.page()
	if err != nil {
		return err
	}
	return s.PopClip()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
