package layout

import (
	"fmt"
	"strings"
)

// PageSize 是页面的宽高（mm）。
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

var (
	A3     = PageSize{Width: 297, Height: 420}
	A4     = PageSize{Width: 210, Height: 297}
	A5     = PageSize{Width: 148, Height: 210}
	Letter = PageSize{Width: 215.9, Height: 279.4}
	Legal  = PageSize{Width: 215.9, Height: 355.6}
)

// LookupPageSize 按名称（不区分大小写）查找预设纸张。
func LookupPageSize(name string) (PageSize, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "A3":
		return A3, true
	case "A4":
		return A4, true
	case "A5":
		return A5, true
	case "LETTER":
		return Letter, true
	case "LEGAL":
		return Legal, true
	}
	return PageSize{}, false
}

// Orientation 是页面方向。
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

// PageFormat 描述页面尺寸、方向、旋转与边距。
//
// 作为元素加入文档时，它会在下一次换页时生效。
type PageFormat struct {
	Size         PageSize
	Orientation  Orientation
	Rotation     int // 顺时针，必须是 90 的倍数
	Margin       Insets
	HeaderHeight float64
	FooterHeight float64
}

// DefaultPageFormat 返回 A4 纵向、四边 20mm 的页面格式。
func DefaultPageFormat() PageFormat {
	return PageFormat{Size: A4, Orientation: Portrait, Margin: UniformInsets(20)}
}

// Landscape 返回横向的副本。
func (f PageFormat) Landscape() PageFormat {
	f.Orientation = Landscape
	return f
}

// Portrait 返回纵向的副本。
func (f PageFormat) Portrait() PageFormat {
	f.Orientation = Portrait
	return f
}

// Validate 检查页面格式是否可用。
func (f PageFormat) Validate() error {
	if f.Size.Width <= 0 || f.Size.Height <= 0 {
		return fmt.Errorf("%w: page size %.2fx%.2f", ErrInvalidConfig, f.Size.Width, f.Size.Height)
	}
	if f.Rotation%90 != 0 {
		return fmt.Errorf("%w: rotation %d is not a multiple of 90", ErrInvalidConfig, f.Rotation)
	}
	return nil
}

// Dimensions 返回按方向校正后的页面宽高：横向时宽大于高，纵向时高大于宽。
func (f PageFormat) Dimensions() (width, height float64) {
	w, h := f.Size.Width, f.Size.Height
	if (f.Orientation == Landscape && w < h) || (f.Orientation == Portrait && w > h) {
		w, h = h, w
	}
	return w, h
}

// contentTop 返回正文区域上边界，页眉高度大于上边距时以页眉为准。
func (f PageFormat) contentTop() float64 {
	return max(f.Margin.Top, f.HeaderHeight)
}

func (f PageFormat) contentBottom(pageHeight float64) float64 {
	return pageHeight - max(f.Margin.Bottom, f.FooterHeight)
}
