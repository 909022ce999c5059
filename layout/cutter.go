package layout

import "fmt"

// Cutter 通过一个垂直视口显示不可切分元素的一部分，
// 使超过页面高度的元素也能跨页绘制。
type Cutter struct {
	content    Drawable
	viewportY  float64
	viewportH  float64
	fullHeight float64
}

var (
	_ Dividable           = (*Cutter)(nil)
	_ LeadingSpaceRemover = (*Cutter)(nil)
)

// NewCutter 创建显示整个元素的视口。
func NewCutter(d Drawable) (*Cutter, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: cutter without content", ErrInvalidConfig)
	}
	h, err := d.Height()
	if err != nil {
		return nil, err
	}
	return &Cutter{content: d, viewportH: h, fullHeight: h}, nil
}

func (c *Cutter) Width() (float64, error)  { return c.content.Width() }
func (c *Cutter) Height() (float64, error) { return c.viewportH, nil }

// Draw 绘制视口内的部分，视口外的内容被裁掉。
func (c *Cutter) Draw(ctx *RenderContext, ul Position) error {
	w, err := c.content.Width()
	if err != nil {
		return err
	}
	if err := ctx.PushClip(Box{X: ul.X, Y: ul.Y, Width: w, Height: c.viewportH}); err != nil {
		return err
	}
	drawErr := c.content.Draw(ctx, ul.Add(0, -c.viewportY))
	if err := ctx.PopClip(); err != nil && drawErr == nil {
		drawErr = err
	}
	return drawErr
}

// Divide 在视口内切分：前一部分高度为 remaining，其余留给后续页面。
func (c *Cutter) Divide(remaining float64, _ *RenderContext, _ bool) (Divided, error) {
	if remaining < 0 {
		return Divided{First: c.slice(c.viewportY, 0), Tail: c}, nil
	}
	if remaining >= c.viewportH {
		return Divided{First: c, Tail: c.slice(c.viewportY+c.viewportH, 0)}, nil
	}
	return Divided{
		First: c.slice(c.viewportY, remaining),
		Tail:  c.slice(c.viewportY+remaining, c.viewportH-remaining),
	}, nil
}

func (c *Cutter) slice(y, h float64) *Cutter {
	return &Cutter{content: c.content, viewportY: y, viewportH: h, fullHeight: c.fullHeight}
}

// RemoveLeadingEmptyVerticalSpace 只在视口位于内容开头时转交给内容。
func (c *Cutter) RemoveLeadingEmptyVerticalSpace() error {
	if c.viewportY != 0 {
		return nil
	}
	if err := removeLeadingSpace(c.content); err != nil {
		return err
	}
	h, err := c.content.Height()
	if err != nil {
		return err
	}
	c.viewportH = max(c.viewportH-(c.fullHeight-h), 0)
	c.fullHeight = h
	return nil
}
