package layout

import "fmt"

// Image 是固定尺寸的图片，不能被切分（跨页时由 Cutter 裁剪）。
type Image struct {
	Src      string
	Position *Position

	width  float64
	height float64
}

var (
	_ Drawable   = (*Image)(nil)
	_ Positioned = (*Image)(nil)
)

// NewImage 创建宽 w、高 h（mm）的图片。
func NewImage(src string, w, h float64) (*Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: image %s has size %.2fx%.2f", ErrInvalidConfig, src, w, h)
	}
	return &Image{Src: src, width: w, height: h}, nil
}

func (i *Image) Width() (float64, error)  { return i.width, nil }
func (i *Image) Height() (float64, error) { return i.height, nil }

func (i *Image) AbsolutePosition() *Position { return i.Position }

func (i *Image) Draw(ctx *RenderContext, ul Position) error {
	return ctx.DrawImage(i.Src, Box{X: ul.X, Y: ul.Y, Width: i.width, Height: i.height})
}
