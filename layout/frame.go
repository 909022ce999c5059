package layout

import (
	"math"
	"slices"
)

// Border 是 Frame 的边框。
type Border struct {
	Shape  Shape
	Stroke Stroke
	Color  Color
}

// Frame 是盒模型容器：外边距、边框、内边距与背景包裹一组纵向排列的子元素。
//
// 宽度：GivenWidth > 0 时以其为准，否则为最宽子元素加上左右外边距、边框与内边距；
// 高度同理。切分时前一部分去掉底部间距，后一部分去掉顶部间距，
// 被切开的一侧也不再绘制边框。
type Frame struct {
	Margin     Insets
	Padding    Insets
	Border     *Border
	Background *Color

	GivenWidth  float64
	GivenHeight float64
	Position    *Position

	// StartNewPage 要求 Frame 从新页开始（已在页面顶部时不再换页）。
	StartNewPage bool
	// KeepTogether 要求 Frame 尽量完整地出现在同一页。
	KeepTogether bool
	// NeedSpace 是放置 Frame 所需的最小剩余高度，不足时推迟到下一页。
	NeedSpace float64

	children    []Drawable
	maxWidth    float64
	ts          Typesetter
	sliceTop    bool
	sliceBottom bool
}

var (
	_ Dividable            = (*Frame)(nil)
	_ WidthRespecting      = (*Frame)(nil)
	_ Positioned           = (*Frame)(nil)
	_ LeadingSpaceRemover  = (*Frame)(nil)
	_ TrailingSpaceTrimmer = (*Frame)(nil)
	_ MaxWidthPropagator   = (*Frame)(nil)
)

// NewFrame 创建给定外部宽高的 Frame，0 表示由内容决定。
func NewFrame(width, height float64, children ...Drawable) *Frame {
	return &Frame{GivenWidth: width, GivenHeight: height, children: children, maxWidth: -1}
}

// WithTypesetter 设置 NewParagraph 使用的排版后端。
func (f *Frame) WithTypesetter(ts Typesetter) *Frame {
	f.ts = ts
	return f
}

// Add 追加子元素。
func (f *Frame) Add(d Drawable) { f.children = append(f.children, d) }

// AddAll 按顺序追加多个子元素。
func (f *Frame) AddAll(ds ...Drawable) { f.children = append(f.children, ds...) }

// Children 返回子元素。
func (f *Frame) Children() []Drawable { return slices.Clone(f.children) }

// NewParagraph 创建段落并加入 Frame。
func (f *Frame) NewParagraph() *Paragraph {
	p := NewParagraph(f.ts)
	f.Add(p)
	return p
}

// NewInteriorFrame 创建恰好放得进当前 Frame 内部的子 Frame 并加入其中。
func (f *Frame) NewInteriorFrame() *Frame {
	inner := NewFrame(0, 0).WithTypesetter(f.ts)
	if f.GivenWidth > 0 {
		inner.GivenWidth = f.GivenWidth - f.horizontalSpacing()
	}
	if f.GivenHeight > 0 {
		inner.GivenHeight = f.GivenHeight - f.verticalSpacing()
	}
	if f.maxWidth > 0 {
		inner.SetMaxWidth(f.maxWidth - f.horizontalSpacing())
	}
	f.Add(inner)
	return inner
}

func (f *Frame) borderWidth() float64 {
	if f.Border == nil {
		return 0
	}
	return f.Border.Stroke.Width
}

func (f *Frame) borderTop() float64 {
	if f.sliceTop {
		return 0
	}
	return f.borderWidth()
}

func (f *Frame) borderBottom() float64 {
	if f.sliceBottom {
		return 0
	}
	return f.borderWidth()
}

func (f *Frame) horizontalSpacing() float64 {
	return f.Margin.Left + f.Margin.Right + 2*f.borderWidth() + f.Padding.Left + f.Padding.Right
}

func (f *Frame) verticalSpacing() float64 {
	return f.Margin.Top + f.Margin.Bottom + f.borderTop() + f.borderBottom() + f.Padding.Top + f.Padding.Bottom
}

func (f *Frame) MaxWidth() float64 { return f.maxWidth }

// SetMaxWidth 设置最大宽度，并把内部可用宽度传给子元素。
func (f *Frame) SetMaxWidth(w float64) {
	f.maxWidth = w
	interior := w - f.horizontalSpacing()
	if f.GivenWidth > 0 {
		interior = f.GivenWidth - f.horizontalSpacing()
	}
	for _, c := range f.children {
		if wr, ok := c.(WidthRespecting); ok {
			wr.SetMaxWidth(interior)
		}
	}
}

// PropagateMaxWidthToChildren 在给定宽度且不是绝对定位时，以给定宽度约束子元素，
// 并继续向下传递给嵌套的 Frame 与 Table。
func (f *Frame) PropagateMaxWidthToChildren() error {
	if f.Position == nil && f.GivenWidth > 0 {
		f.SetMaxWidth(f.GivenWidth)
	}
	for _, c := range f.children {
		if mp, ok := c.(MaxWidthPropagator); ok {
			if err := mp.PropagateMaxWidthToChildren(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Frame) AbsolutePosition() *Position { return f.Position }

func (f *Frame) Width() (float64, error) {
	if f.GivenWidth > 0 {
		return f.GivenWidth, nil
	}
	w := 0.0
	for _, c := range f.children {
		cw, err := c.Width()
		if err != nil {
			return 0, err
		}
		w = max(w, cw)
	}
	return w + f.horizontalSpacing(), nil
}

func (f *Frame) Height() (float64, error) {
	if f.GivenHeight > 0 {
		return f.GivenHeight, nil
	}
	h, err := heightOf(f.children)
	if err != nil {
		return 0, err
	}
	return h + f.verticalSpacing(), nil
}

func heightOf(ds []Drawable) (float64, error) {
	h := 0.0
	for _, d := range ds {
		dh, err := d.Height()
		if err != nil {
			return 0, err
		}
		h += dh
	}
	return h, nil
}

// leadingWhiteSpace 返回第一个可见内容之前的空白高度。
// 只有没有边框与背景的首个子 Frame 才会被计入，因为它们的外边距与内边距不可见。
func (f *Frame) leadingWhiteSpace() float64 {
	ws := f.Margin.Top + f.Padding.Top
	if len(f.children) == 0 {
		return ws
	}
	if inner, ok := f.children[0].(*Frame); ok && inner.Border == nil && inner.Background == nil {
		return ws + inner.leadingWhiteSpace()
	}
	return ws
}

// Draw 先绘制背景与边框，再从上到下绘制子元素。
func (f *Frame) Draw(ctx *RenderContext, ul Position) error {
	if err := f.PropagateMaxWidthToChildren(); err != nil {
		return err
	}
	w, err := f.Width()
	if err != nil {
		return err
	}
	h, err := f.Height()
	if err != nil {
		return err
	}
	bw, bt, bb := f.borderWidth(), f.borderTop(), f.borderBottom()
	x, y := ul.X+f.Margin.Left, ul.Y+f.Margin.Top
	outerW := w - f.Margin.Left - f.Margin.Right
	outerH := h - f.Margin.Top - f.Margin.Bottom
	shapeBox := Box{X: x + bw/2, Y: y + bt/2, Width: outerW - bw, Height: outerH - bt/2 - bb/2}

	if f.Background != nil && !shapeBox.Empty() {
		if err := ctx.FillShape(f.shape(), shapeBox, *f.Background); err != nil {
			return err
		}
	}
	if bw > 0 && outerH > 0 {
		if err := f.drawBorder(ctx, x, y, outerW, outerH, shapeBox); err != nil {
			return err
		}
	}

	inner := Position{X: x + bw + f.Padding.Left, Y: y + bt + f.Padding.Top}
	for _, c := range f.children {
		if err := c.Draw(ctx, inner); err != nil {
			return err
		}
		ch, err := c.Height()
		if err != nil {
			return err
		}
		inner.Y += ch
	}
	return nil
}

func (f *Frame) shape() Shape {
	if f.Border != nil {
		return f.Border.Shape
	}
	return Shape{}
}

// drawBorder 绘制完整边框；被切分的 Frame 只绘制未被切开的边。
func (f *Frame) drawBorder(ctx *RenderContext, x, y, w, h float64, shapeBox Box) error {
	b := f.Border
	if !f.sliceTop && !f.sliceBottom {
		return ctx.StrokeShape(b.Shape, shapeBox, b.Stroke, b.Color)
	}
	half := b.Stroke.Width / 2
	lines := [][2]Position{
		{{X: x + half, Y: y}, {X: x + half, Y: y + h}},
		{{X: x + w - half, Y: y}, {X: x + w - half, Y: y + h}},
	}
	if !f.sliceTop {
		lines = append(lines, [2]Position{{X: x, Y: y + half}, {X: x + w, Y: y + half}})
	}
	if !f.sliceBottom {
		lines = append(lines, [2]Position{{X: x, Y: y + h - half}, {X: x + w, Y: y + h - half}})
	}
	for _, l := range lines {
		if err := ctx.DrawLine(l[0], l[1], b.Stroke, b.Color); err != nil {
			return err
		}
	}
	return nil
}

// copyStyle 复制除子元素以外的全部属性。
func (f *Frame) copyStyle() *Frame {
	c := *f
	c.children = nil
	if f.Border != nil {
		b := *f.Border
		b.Stroke.Dash = slices.Clone(b.Stroke.Dash)
		c.Border = &b
	}
	return &c
}

// emptyCopy 返回高度为 0 的同样式 Frame，用于切分结果中为空的一侧。
func (f *Frame) emptyCopy() *Frame {
	c := f.copyStyle()
	c.GivenHeight = 0
	c.Margin.Top, c.Margin.Bottom = 0, 0
	c.Padding.Top, c.Padding.Bottom = 0, 0
	c.sliceTop, c.sliceBottom = true, true
	return c
}

// Divide 把 Frame 切成放得进 remaining 的前一部分与其余部分。
//
// 不在页面顶部时，以下情况整个 Frame 推迟到下一页（前一部分为填满剩余空间的空白）：
// 要求新页、剩余空间小于 NeedSpace、剩余空间不足以容纳开头的空白、
// 或者 KeepTogether 且在下一页能完整放下。
func (f *Frame) Divide(remaining float64, ctx *RenderContext, topOfPage bool) (Divided, error) {
	if err := f.PropagateMaxWidthToChildren(); err != nil {
		return Divided{}, err
	}
	full, err := f.Height()
	if err != nil {
		return Divided{}, err
	}
	if remaining < 0 {
		return Divided{First: f.emptyCopy(), Tail: f}, nil
	}

	pageHeight := math.Inf(1)
	if ctx != nil {
		pageHeight = ctx.Height()
	}
	deferred := f.StartNewPage ||
		remaining < f.NeedSpace ||
		remaining <= f.leadingWhiteSpace() ||
		(f.KeepTogether && remaining < full && full < pageHeight)
	if deferred && !topOfPage {
		return Divided{First: NewSpacer(remaining), Tail: f}, nil
	}
	if remaining >= full {
		return Divided{First: f, Tail: f.emptyCopy()}, nil
	}

	spaceLeft := remaining - f.Margin.Top - f.borderTop() - f.Padding.Top
	head, toDivide, tail, err := divideChildren(f.children, spaceLeft, topOfPage)
	if err != nil {
		return Divided{}, err
	}
	if len(head) > 0 {
		topOfPage = false
	}
	if toDivide != nil {
		d, ok := toDivide.(Dividable)
		if !ok {
			if d, err = NewCutter(toDivide); err != nil {
				return Divided{}, err
			}
		}
		used, err := heightOf(head)
		if err != nil {
			return Divided{}, err
		}
		divided, err := d.Divide(spaceLeft-used, ctx, topOfPage)
		if err != nil {
			return Divided{}, err
		}
		if divided.First != nil {
			head = append(head, divided.First)
		}
		if divided.Tail != nil {
			tail = append([]Drawable{divided.Tail}, tail...)
		}
	}

	first := f.copyStyle()
	first.Margin.Bottom, first.Padding.Bottom = 0, 0
	first.sliceBottom = true
	first.children = head

	rest := f.copyStyle()
	rest.Margin.Top, rest.Padding.Top = 0, 0
	rest.sliceTop = true
	rest.children = tail

	if f.GivenHeight > 0 {
		first.GivenHeight = remaining
		rest.GivenHeight = f.GivenHeight - remaining
	}
	return Divided{First: first, Tail: rest}, nil
}

// divideChildren 依次放入能完整放下的子元素，返回放下的部分、需要继续切分的元素与剩余元素。
func divideChildren(children []Drawable, spaceLeft float64, topOfPage bool) (head []Drawable, toDivide Drawable, tail []Drawable, err error) {
	used := 0.0
	i := 0
	for used < spaceLeft && i < len(children) {
		c := children[i]
		h, err := c.Height()
		if err != nil {
			return nil, nil, nil, err
		}
		if inner, ok := c.(*Frame); ok && !topOfPage {
			if inner.StartNewPage || spaceLeft-used < inner.NeedSpace {
				head = append(head, NewSpacer(spaceLeft-used))
				used = spaceLeft
				break
			}
		}
		if used+h > spaceLeft {
			break
		}
		head = append(head, c)
		used += h
		i++
		topOfPage = false
	}
	if nearlyEqual(used, spaceLeft) || i >= len(children) {
		return head, nil, slices.Clone(children[i:]), nil
	}
	return head, children[i], slices.Clone(children[i+1:]), nil
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// RemoveLeadingEmptyVerticalSpace 转交给第一个子元素。
func (f *Frame) RemoveLeadingEmptyVerticalSpace() error {
	if len(f.children) == 0 {
		return nil
	}
	return removeLeadingSpace(f.children[0])
}

// TrimTrailingWhiteSpace 转交给最后一个子元素。
func (f *Frame) TrimTrailingWhiteSpace() error {
	if len(f.children) == 0 {
		return nil
	}
	return trimTrailingSpace(f.children[len(f.children)-1])
}
