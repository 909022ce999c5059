package layout

// Element 是可以交给 Document 的任意对象：可绘制元素、控制元素、布局或页面格式。
type Element any

// LayoutHint 是布局对单个元素的附加说明，例如 VerticalLayoutHint。
type LayoutHint any

// Drawable 是可以被测量并绘制在页面上的元素。
type Drawable interface {
	// Width 返回元素宽度（mm）。
	Width() (float64, error)
	// Height 返回元素高度（mm）。
	Height() (float64, error)
	// Draw 在 ul（左上角）处绘制元素，绘制调用通过 ctx 转发到页面。
	Draw(ctx *RenderContext, ul Position) error
}

// Divided 是 Divide 的结果：First 放进当前页剩余空间，Tail 留给后续页面。
type Divided struct {
	First Drawable
	Tail  Drawable
}

// Dividable 是可以在页面边界处切分的元素。
//
// 约定：remaining < 0 时 First 为空元素、Tail 为原元素；remaining >= 高度时
// First 为原元素、Tail 为空元素。First 与 Tail 的高度之和等于原高度。
// topOfPage 表示当前位置位于页面（或栏）顶部，此时元素不能再整体推迟。
type Dividable interface {
	Drawable
	Divide(remaining float64, ctx *RenderContext, topOfPage bool) (Divided, error)
}

// WidthRespecting 是会按照最大宽度折行或收缩的元素。
type WidthRespecting interface {
	MaxWidth() float64
	SetMaxWidth(w float64)
}

// Positioned 是带有绝对位置的元素，布局不会移动它们，也不会推进光标。
type Positioned interface {
	AbsolutePosition() *Position
}

// LeadingSpaceRemover 在页面顶部移除元素开头的空白（间距、空行）。
type LeadingSpaceRemover interface {
	RemoveLeadingEmptyVerticalSpace() error
}

// TrailingSpaceTrimmer 在分页前移除元素末尾的空白。
type TrailingSpaceTrimmer interface {
	TrimTrailingWhiteSpace() error
}

// MaxWidthPropagator 把自身的宽度约束传递给子元素。
type MaxWidthPropagator interface {
	PropagateMaxWidthToChildren() error
}

// absolutePosition 返回元素的绝对位置，没有时返回 nil。
func absolutePosition(e any) *Position {
	if p, ok := e.(Positioned); ok {
		return p.AbsolutePosition()
	}
	return nil
}

func removeLeadingSpace(e any) error {
	if r, ok := e.(LeadingSpaceRemover); ok {
		return r.RemoveLeadingEmptyVerticalSpace()
	}
	return nil
}

func trimTrailingSpace(e any) error {
	if t, ok := e.(TrailingSpaceTrimmer); ok {
		return t.TrimTrailingWhiteSpace()
	}
	return nil
}
