package layout

import (
	"fmt"
	"slices"
)

// Recorder 把绘制调用记录为 Result，供渲染器与调试输出使用。
type Recorder struct {
	result Result
}

var _ PageSink = (*Recorder)(nil)

// NewRecorder 创建空的记录器。
func NewRecorder(resources ResourceSet, meta DocumentMeta) *Recorder {
	return &Recorder{result: Result{Resources: resources, Meta: meta}}
}

// Result 返回已经记录的页面。
func (r *Recorder) Result() *Result {
	res := r.result
	return &res
}

// OpenPage 追加一页并返回其绘制面。
func (r *Recorder) OpenPage(index int, width, height float64) (PageSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: page size %.2fx%.2f", ErrInvalidConfig, width, height)
	}
	r.result.Pages = append(r.result.Pages, Page{Index: index, Width: width, Height: height})
	return &recordedPage{rec: r, slot: len(r.result.Pages) - 1}, nil
}

type recordedPage struct {
	rec    *Recorder
	slot   int
	clips  []Box
	closed bool
}

func (p *recordedPage) page() *Page { return &p.rec.result.Pages[p.slot] }

func (p *recordedPage) add(item Item) error {
	if p.closed {
		return fmt.Errorf("%w: page %d already closed", ErrNoPage, p.page().Index)
	}
	if n := len(p.clips); n > 0 {
		clip := p.clips[n-1]
		item.Clip = &clip
	}
	pg := p.page()
	pg.Items = append(pg.Items, item)
	return nil
}

func (p *recordedPage) FillShape(shape Shape, box Box, color Color) error {
	c := color
	return p.add(Item{Kind: ItemRect, Rect: &Rect{
		X: box.X, Y: box.Y, Width: box.Width, Height: box.Height,
		Radius: shapeRadius(shape), FillColor: &c,
	}})
}

func (p *recordedPage) StrokeShape(shape Shape, box Box, stroke Stroke, color Color) error {
	c := color
	return p.add(Item{Kind: ItemRect, Rect: &Rect{
		X: box.X, Y: box.Y, Width: box.Width, Height: box.Height,
		Radius: shapeRadius(shape), StrokeColor: &c, StrokeWidth: stroke.Width,
		Dash: slices.Clone(stroke.Dash),
	}})
}

func (p *recordedPage) DrawLine(from, to Position, stroke Stroke, color Color) error {
	return p.add(Item{Kind: ItemLine, Line: &Line{
		X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y,
		Color: color, Width: stroke.Width, Dash: slices.Clone(stroke.Dash),
	}})
}

func (p *recordedPage) DrawText(ul Position, baseline float64, run TextRun, width, height float64) error {
	return p.add(Item{Kind: ItemText, Text: &TextBox{
		Content: run.Text, X: ul.X, Y: ul.Y, Baseline: baseline,
		Width: width, Height: height,
		Font: run.Font.Name, FontSize: run.Size, Color: run.Color,
	}})
}

func (p *recordedPage) DrawImage(src string, box Box) error {
	return p.add(Item{Kind: ItemImage, Image: &ImageBox{
		Path: src, X: box.X, Y: box.Y, Width: box.Width, Height: box.Height, Opacity: 1,
	}})
}

func (p *recordedPage) PushClip(box Box) error {
	if p.closed {
		return fmt.Errorf("%w: page %d already closed", ErrNoPage, p.page().Index)
	}
	if n := len(p.clips); n > 0 {
		box = p.clips[n-1].Intersect(box)
	}
	p.clips = append(p.clips, box)
	return nil
}

func (p *recordedPage) PopClip() error {
	if len(p.clips) == 0 {
		return fmt.Errorf("layout: clip stack is empty")
	}
	p.clips = p.clips[:len(p.clips)-1]
	return nil
}

func (p *recordedPage) Close(rotation int) error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.page().Rotation = rotation
	return nil
}

func shapeRadius(s Shape) float64 {
	if s.Kind == RoundRectShape {
		return s.Radius
	}
	return 0
}
