package renderer

import (
	"image"
	"math"

	"github.com/ByLCY/quire/layout"
)

// 以下函数供不支持裁剪路径的后端使用：在绘制前把图元本身裁到裁剪区域内。

// ClipRect 返回矩形与裁剪区域的交集，ok 为 false 表示完全不可见。
// 被裁剪的圆角矩形退化为直角矩形。
func ClipRect(r layout.Rect, clip *layout.Box) (layout.Rect, bool) {
	if clip == nil {
		return r, true
	}
	box := layout.Box{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	in := box.Intersect(*clip)
	if in.Empty() {
		return r, false
	}
	if in != box {
		r.Radius = 0
	}
	r.X, r.Y, r.Width, r.Height = in.X, in.Y, in.Width, in.Height
	return r, true
}

// ClipLine 用 Liang-Barsky 算法把线段裁到区域内。
func ClipLine(l layout.Line, clip *layout.Box) (layout.Line, bool) {
	if clip == nil {
		return l, true
	}
	dx, dy := l.X2-l.X1, l.Y2-l.Y1
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, l.X1 - clip.X},
		{dx, clip.X + clip.Width - l.X1},
		{-dy, l.Y1 - clip.Y},
		{dy, clip.Y + clip.Height - l.Y1},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return l, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return l, false
		}
	}
	x1, y1 := l.X1, l.Y1
	l.X1, l.Y1 = x1+t0*dx, y1+t0*dy
	l.X2, l.Y2 = x1+t1*dx, y1+t1*dy
	return l, true
}

// TextVisible 报告文本是否应绘制：文本行的垂直中点需落在裁剪区域内。
func TextVisible(tb layout.TextBox, clip *layout.Box) bool {
	if clip == nil {
		return true
	}
	mid := tb.Y + tb.Height/2
	return mid >= clip.Y && mid <= clip.Y+clip.Height
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// ClipImage 返回图片在裁剪区域内可见的部分及其在页面上的位置。
func ClipImage(img image.Image, box layout.Box, clip *layout.Box) (image.Image, layout.Box, bool) {
	if clip == nil {
		return img, box, !box.Empty()
	}
	visible := box.Intersect(*clip)
	if visible.Empty() {
		return nil, visible, false
	}
	if visible == box {
		return img, box, true
	}
	sub, ok := img.(subImager)
	if !ok {
		return img, box, true
	}
	b := img.Bounds()
	sx := float64(b.Dx()) / box.Width
	sy := float64(b.Dy()) / box.Height
	rect := image.Rect(
		b.Min.X+int(math.Round((visible.X-box.X)*sx)),
		b.Min.Y+int(math.Round((visible.Y-box.Y)*sy)),
		b.Min.X+int(math.Round((visible.X+visible.Width-box.X)*sx)),
		b.Min.Y+int(math.Round((visible.Y+visible.Height-box.Y)*sy)),
	).Intersect(b)
	if rect.Empty() {
		return nil, visible, false
	}
	return sub.SubImage(rect), visible, true
}
