package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFrameDivideConservesHeight(t *testing.T) {
	f := NewFrame(400, 0, NewSpacer(100), NewSpacer(100), NewSpacer(100))
	f.Padding = UniformInsets(10)
	if got := heightOrFail(t, f); got != 320 {
		t.Fatalf("高度期望 320，实际 %g", got)
	}

	d, err := f.Divide(150, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	if got := heightOrFail(t, d.First); got != 150 {
		t.Fatalf("前一部分高度期望 150，实际 %g", got)
	}
	if got := heightOrFail(t, d.Tail); got != 170 {
		t.Fatalf("后一部分高度期望 170，实际 %g", got)
	}
	if diff := cmp.Diff([]float64{100, 40}, childHeights(t, d.First)); diff != "" {
		t.Fatalf("前一部分子元素不符 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{60, 100}, childHeights(t, d.Tail)); diff != "" {
		t.Fatalf("后一部分子元素不符 (-want +got):\n%s", diff)
	}
	head := d.First.(*Frame)
	if head.Padding.Bottom != 0 || head.Padding.Top != 10 {
		t.Fatalf("前一部分应保留顶部内边距、去掉底部内边距: %+v", head.Padding)
	}
	tail := d.Tail.(*Frame)
	if tail.Padding.Top != 0 || tail.Padding.Bottom != 10 {
		t.Fatalf("后一部分应去掉顶部内边距、保留底部内边距: %+v", tail.Padding)
	}
}

func TestFrameDivideWithBorderSlicesEdges(t *testing.T) {
	f := NewFrame(50, 0, NewSpacer(30), NewSpacer(30), NewSpacer(30))
	f.Border = &Border{Stroke: Stroke{Width: 2}, Color: Black}
	if got := heightOrFail(t, f); got != 94 {
		t.Fatalf("高度期望 94，实际 %g", got)
	}
	d, err := f.Divide(50, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	first, tail := heightOrFail(t, d.First), heightOrFail(t, d.Tail)
	if first != 50 || tail != 44 {
		t.Fatalf("期望 50/44，实际 %g/%g", first, tail)
	}
	if diff := cmp.Diff([]float64{30, 18}, childHeights(t, d.First)); diff != "" {
		t.Fatalf("前一部分子元素不符 (-want +got):\n%s", diff)
	}
}

func TestFrameDegenerateDivide(t *testing.T) {
	f := NewFrame(50, 0, NewSpacer(30))
	f.Margin = Insets{Top: 5, Bottom: 5}

	d, err := f.Divide(100, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	if d.First != f || heightOrFail(t, d.Tail) != 0 {
		t.Fatalf("空间足够时应返回原元素与空元素")
	}

	d, err = f.Divide(-1, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	if d.Tail != f || heightOrFail(t, d.First) != 0 {
		t.Fatalf("剩余空间为负时应返回空元素与原元素")
	}
}

func TestFrameDeferral(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *Frame)
		rem   float64
	}{
		{"start new page", func(f *Frame) { f.StartNewPage = true }, 50},
		{"need space", func(f *Frame) { f.NeedSpace = 60 }, 50},
		{"keep together", func(f *Frame) { f.KeepTogether = true }, 50},
		{"leading white space", func(f *Frame) { f.Margin.Top = 10; f.Padding.Top = 5 }, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(50, 0, NewSpacer(40), NewSpacer(40))
			tt.setup(f)

			d, err := f.Divide(tt.rem, nil, false)
			if err != nil {
				t.Fatalf("切分失败: %v", err)
			}
			if _, ok := d.First.(*Spacer); !ok {
				t.Fatalf("前一部分应为空白，实际 %T", d.First)
			}
			if got := heightOrFail(t, d.First); got != tt.rem {
				t.Fatalf("空白高度期望 %g，实际 %g", tt.rem, got)
			}
			if d.Tail != f {
				t.Fatalf("整个 Frame 应推迟到下一页")
			}

			d, err = f.Divide(tt.rem, nil, true)
			if err != nil {
				t.Fatalf("切分失败: %v", err)
			}
			if d.Tail == f {
				t.Fatalf("页面顶部不应再推迟")
			}
		})
	}
}

func TestFrameKeepTogetherTallerThanPage(t *testing.T) {
	cfg := smallPage()
	rec := NewRecorder(ResourceSet{}, DocumentMeta{})
	ctx := newRenderContext(rec, cfg.Format, cfg.Typesetter, nil, false)
	if err := ctx.NewPage(); err != nil {
		t.Fatalf("打开页面失败: %v", err)
	}

	f := NewFrame(50, 0, NewSpacer(60), NewSpacer(60))
	f.KeepTogether = true
	d, err := f.Divide(30, ctx, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	if _, ok := d.First.(*Spacer); ok {
		t.Fatalf("比整页还高的 Frame 不应被推迟")
	}
}

func TestFrameChildStartNewPage(t *testing.T) {
	child := NewFrame(20, 10)
	child.StartNewPage = true
	f := NewFrame(50, 0, NewSpacer(20), child)

	d, err := f.Divide(25, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	if diff := cmp.Diff([]float64{20, 5}, childHeights(t, d.First)); diff != "" {
		t.Fatalf("前一部分应以空白填满 (-want +got):\n%s", diff)
	}
	tail := d.Tail.(*Frame)
	if len(tail.children) != 1 || tail.children[0] != child {
		t.Fatalf("子 Frame 应整体移到后一部分")
	}
}

func TestFrameWidth(t *testing.T) {
	f := NewFrame(0, 0, NewSpacer(10))
	f.Margin = Insets{Left: 1, Right: 2}
	f.Padding = Insets{Left: 3, Right: 4}
	f.Border = &Border{Stroke: Stroke{Width: 0.5}}
	r := NewRuler(Stroke{Width: 1}, Black)
	f.Add(r)
	f.SetMaxWidth(100)
	if got := r.MaxWidth(); got != 100-11 {
		t.Fatalf("子元素最大宽度期望 89，实际 %g", got)
	}
	w, err := f.Width()
	if err != nil {
		t.Fatalf("计算宽度失败: %v", err)
	}
	if w != 100 {
		t.Fatalf("宽度期望 100，实际 %g", w)
	}
}

func TestFrameGivenHeightDivide(t *testing.T) {
	f := NewFrame(50, 70)
	d, err := f.Divide(30, nil, true)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	if a, b := heightOrFail(t, d.First), heightOrFail(t, d.Tail); a != 30 || b != 40 {
		t.Fatalf("期望 30/40，实际 %g/%g", a, b)
	}
}

func TestInteriorFrame(t *testing.T) {
	f := NewFrame(100, 0)
	f.Margin = UniformInsets(5)
	f.Padding = UniformInsets(2)
	inner := f.NewInteriorFrame()
	if inner.GivenWidth != 86 {
		t.Fatalf("内部 Frame 宽度期望 86，实际 %g", inner.GivenWidth)
	}
	if got := f.Children(); len(got) != 1 || got[0] != inner {
		t.Fatalf("内部 Frame 应加入父 Frame")
	}
}
