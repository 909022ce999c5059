package layout

// Spacer 是只占据垂直空间、不绘制内容的元素。
type Spacer struct {
	height float64
}

var (
	_ Dividable           = (*Spacer)(nil)
	_ LeadingSpaceRemover = (*Spacer)(nil)
)

// NewSpacer 创建高度为 h 的空白，负数按 0 处理。
func NewSpacer(h float64) *Spacer {
	return &Spacer{height: max(h, 0)}
}

func (s *Spacer) Width() (float64, error)  { return 0, nil }
func (s *Spacer) Height() (float64, error) { return s.height, nil }

// Draw 不绘制任何内容，只记录占用的区域。
func (s *Spacer) Draw(ctx *RenderContext, ul Position) error {
	ctx.Drawn(Box{X: ul.X, Y: ul.Y, Height: s.height})
	return nil
}

// Divide 把空白切成 remaining 与剩余两部分。
func (s *Spacer) Divide(remaining float64, _ *RenderContext, _ bool) (Divided, error) {
	first := min(max(remaining, 0), s.height)
	return Divided{First: NewSpacer(first), Tail: NewSpacer(s.height - first)}, nil
}

// RemoveLeadingEmptyVerticalSpace 位于页面顶部的空白没有意义，高度归零。
func (s *Spacer) RemoveLeadingEmptyVerticalSpace() error {
	s.height = 0
	return nil
}

