package layout

import "fmt"

// VerticalLayoutHint 控制单个元素在纵向布局中的对齐与外边距。
type VerticalLayoutHint struct {
	Alignment    Alignment
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
	// ResetY 为 true 时绘制后不推进光标，下一个元素会叠在同一位置。
	ResetY bool
}

// VerticalLayout 从上到下排列元素，放不下时切分元素并换页。
type VerticalLayout struct {
	// KeepLeadingEmptyVerticalSpace 为 true 时保留页面顶部的段前间距与空行。
	KeepLeadingEmptyVerticalSpace bool
}

var _ Layout = (*VerticalLayout)(nil)

// pager 是纵向排版中随布局变化的部分：可用宽度、放不下时的“翻页”（分栏时是换栏）
// 以及真正的换页。
type pager interface {
	targetWidth(ctx *RenderContext) float64
	turnPage(ctx *RenderContext) error
	newPage(ctx *RenderContext) error
	keepLeadingSpace() bool
}

func (l *VerticalLayout) targetWidth(ctx *RenderContext) float64 { return ctx.Width() }

func (l *VerticalLayout) turnPage(ctx *RenderContext) error { return ctx.NewPage() }

func (l *VerticalLayout) newPage(ctx *RenderContext) error { return ctx.NewPage() }

func (l *VerticalLayout) keepLeadingSpace() bool { return l.KeepLeadingEmptyVerticalSpace }

// RenderWithHint 处理可绘制元素，其余元素交还给 RenderContext。
func (l *VerticalLayout) RenderWithHint(ctx *RenderContext, e Element, hint LayoutHint) (bool, error) {
	d, ok := e.(Drawable)
	if !ok {
		return false, nil
	}
	return true, renderDrawable(l, ctx, d, hint)
}

func verticalHint(hint LayoutHint) VerticalLayoutHint {
	switch h := hint.(type) {
	case VerticalLayoutHint:
		return h
	case *VerticalLayoutHint:
		if h != nil {
			return *h
		}
	}
	return VerticalLayoutHint{}
}

func renderDrawable(p pager, ctx *RenderContext, d Drawable, hint LayoutHint) error {
	if pos := absolutePosition(d); pos != nil {
		return d.Draw(ctx, *pos)
	}
	if wr, ok := d.(WidthRespecting); ok {
		orig := wr.MaxWidth()
		defer wr.SetMaxWidth(orig)
	}
	if mp, ok := d.(MaxWidthPropagator); ok {
		if err := mp.PropagateMaxWidthToChildren(); err != nil {
			return err
		}
	}
	vh := verticalHint(hint)
	if vh.MarginTop > 0 {
		if err := layoutAndDraw(p, ctx, NewSpacer(vh.MarginTop), vh); err != nil {
			return err
		}
	}
	if err := layoutAndDraw(p, ctx, d, vh); err != nil {
		return err
	}
	if vh.MarginBottom > 0 {
		return layoutAndDraw(p, ctx, NewSpacer(vh.MarginBottom), vh)
	}
	return nil
}

// layoutAndDraw 在剩余空间不足时反复切分元素：绘制前一部分、翻页、继续处理剩余部分。
func layoutAndDraw(p pager, ctx *RenderContext, d Drawable, vh VerticalLayoutHint) error {
	target := p.targetWidth(ctx) - vh.MarginLeft - vh.MarginRight
	if wr, ok := d.(WidthRespecting); ok && wr.MaxWidth() <= 0 {
		wr.SetMaxWidth(target)
	}
	if err := removeLeadingIfTop(p, ctx, d); err != nil {
		return err
	}

	part := d
	if f, ok := d.(*Frame); ok {
		// 要求新页的 Frame 必须从页面左上角开始，分栏时也不只是换栏。
		forced := f.StartNewPage && !ctx.IsPageStart()
		if forced || (!ctx.IsTopOfPage() && ctx.RemainingHeight() < f.NeedSpace) {
			if err := p.newPage(ctx); err != nil {
				return err
			}
			if err := removeLeadingIfTop(p, ctx, part); err != nil {
				return err
			}
		}
	}

	h, err := part.Height()
	if err != nil {
		return err
	}
	for ctx.RemainingHeight() < h {
		top := ctx.IsTopOfPage()
		dv, ok := part.(Dividable)
		if !ok && top {
			if dv, err = NewCutter(part); err != nil {
				return err
			}
			ok = true
		}
		if ok {
			divided, err := dv.Divide(ctx.RemainingHeight(), ctx, top)
			if err != nil {
				return err
			}
			if top {
				th, err := divided.Tail.Height()
				if err != nil {
					return err
				}
				if th >= h {
					return fmt.Errorf("%w: %T of height %.2fmm on page %d", ErrNoProgress, part, h, ctx.PageIndex()+1)
				}
			}
			if err := trimTrailingSpace(divided.First); err != nil {
				return err
			}
			if err := drawPart(p, ctx, divided.First, vh, true); err != nil {
				return err
			}
			part = divided.Tail
		}
		if err := p.turnPage(ctx); err != nil {
			return err
		}
		if err := removeLeadingIfTop(p, ctx, part); err != nil {
			return err
		}
		if h, err = part.Height(); err != nil {
			return err
		}
	}
	return drawPart(p, ctx, part, vh, !vh.ResetY)
}

func removeLeadingIfTop(p pager, ctx *RenderContext, d Drawable) error {
	if p.keepLeadingSpace() || !ctx.IsTopOfPage() {
		return nil
	}
	return removeLeadingSpace(d)
}

// drawPart 在正文区域内按对齐方式绘制元素，超出正文区域的部分被裁掉。
func drawPart(p pager, ctx *RenderContext, d Drawable, vh VerticalLayoutHint, move bool) error {
	w, err := d.Width()
	if err != nil {
		return err
	}
	h, err := d.Height()
	if err != nil {
		return err
	}
	offsetX := vh.MarginLeft
	extra := p.targetWidth(ctx) - vh.MarginLeft - vh.MarginRight - w
	switch vh.Alignment {
	case AlignRight:
		offsetX += extra
	case AlignCenter:
		offsetX += extra / 2
	}
	ul := ctx.UpperLeft()
	if err := ctx.PushClip(Box{X: 0, Y: ul.Y, Width: ctx.PageWidth(), Height: ctx.Height()}); err != nil {
		return err
	}
	drawErr := d.Draw(ctx, ctx.CurrentPosition().Add(offsetX, 0))
	if err := ctx.PopClip(); err != nil && drawErr == nil {
		drawErr = err
	}
	if drawErr != nil {
		return drawErr
	}
	if move {
		ctx.MovePositionBy(0, h)
	}
	return nil
}
