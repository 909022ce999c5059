// Package raster 把布局结果栅格化为 PNG，用于预览与视觉回归。
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/logger"
	"github.com/ByLCY/quire/renderer"
)

const (
	// DefaultDPI 是未指定分辨率时使用的像素密度。
	DefaultDPI = 96
	mmPerInch  = 25.4
	sheetGap   = 16 // 拼接预览中页面之间的像素间距
)

var _ renderer.Renderer = (*Renderer)(nil)

// Renderer 使用 fogleman/gg 逐页绘制，支持裁剪区域与页面旋转。
type Renderer struct {
	DPI    float64
	assets *renderer.Assets

	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	font string
	size float64
}

// NewRenderer 返回以 baseDir 为资源根目录的栅格渲染器，dpi <= 0 时使用 DefaultDPI。
func NewRenderer(baseDir string, dpi float64) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{
		DPI:    dpi,
		assets: renderer.NewAssets(baseDir),
		fonts:  map[string]*opentype.Font{},
		faces:  map[faceKey]font.Face{},
	}
}

func (r *Renderer) px(mm float64) float64 { return mm * r.DPI / mmPerInch }

// Render 把所有页面纵向拼接成一张 PNG。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	pages, err := r.RenderImages(result)
	if err != nil {
		return nil, err
	}
	w, h := 0, 0
	for i, im := range pages {
		w = max(w, im.Bounds().Dx())
		h += im.Bounds().Dy()
		if i > 0 {
			h += sheetGap
		}
	}
	dc := gg.NewContext(w, h)
	dc.SetColor(color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff})
	dc.Clear()
	y := 0
	for _, im := range pages {
		dc.DrawImage(im, 0, y)
		y += im.Bounds().Dy() + sheetGap
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderImages 逐页绘制并返回图像。
func (r *Renderer) RenderImages(result *layout.Result) ([]image.Image, error) {
	if result == nil || len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	out := make([]image.Image, 0, len(result.Pages))
	for i, page := range result.Pages {
		im, err := r.RenderPage(page, result.Resources)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		out = append(out, im)
	}
	return out, nil
}

// WritePNGs 把每页写为 dir 下的 page-001.png 等文件，返回写入的路径。
func (r *Renderer) WritePNGs(result *layout.Result, dir string) ([]string, error) {
	pages, err := r.RenderImages(result)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	paths := make([]string, 0, len(pages))
	for i, im := range pages {
		path := filepath.Join(dir, fmt.Sprintf("page-%03d.png", i+1))
		if err := gg.SavePNG(path, im); err != nil {
			return paths, fmt.Errorf("写入 %s 失败: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// RenderPage 绘制单页，按页面的 Rotation 顺时针旋转结果。
func (r *Renderer) RenderPage(page layout.Page, resources layout.ResourceSet) (image.Image, error) {
	w := int(math.Ceil(r.px(page.Width)))
	h := int(math.Ceil(r.px(page.Height)))
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, it := range page.Items {
		if it.Clip != nil {
			dc.DrawRectangle(r.px(it.Clip.X), r.px(it.Clip.Y), r.px(it.Clip.Width), r.px(it.Clip.Height))
			dc.Clip()
		}
		var err error
		switch it.Kind {
		case layout.ItemRect:
			r.drawRect(dc, *it.Rect)
		case layout.ItemLine:
			r.drawLine(dc, *it.Line)
		case layout.ItemText:
			err = r.drawText(dc, *it.Text, renderer.FontFor(it.Text.Font, resources.Fonts))
		case layout.ItemImage:
			r.drawImage(dc, *it.Image)
		}
		if it.Clip != nil {
			dc.ResetClip()
		}
		if err != nil {
			return nil, err
		}
	}
	return rotate(dc.Image(), page.Rotation), nil
}

func (r *Renderer) drawRect(dc *gg.Context, rc layout.Rect) {
	x, y, w, h := r.px(rc.X), r.px(rc.Y), r.px(rc.Width), r.px(rc.Height)
	if rc.Radius > 0 {
		dc.DrawRoundedRectangle(x, y, w, h, r.px(rc.Radius))
	} else {
		dc.DrawRectangle(x, y, w, h)
	}
	if rc.FillColor != nil {
		dc.SetColor(toColor(*rc.FillColor))
		if rc.StrokeColor != nil {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if rc.StrokeColor != nil {
		r.stroke(dc, rc.StrokeWidth, rc.Dash, *rc.StrokeColor)
	}
	dc.ClearPath()
}

func (r *Renderer) drawLine(dc *gg.Context, ln layout.Line) {
	dc.DrawLine(r.px(ln.X1), r.px(ln.Y1), r.px(ln.X2), r.px(ln.Y2))
	r.stroke(dc, ln.Width, ln.Dash, ln.Color)
}

func (r *Renderer) stroke(dc *gg.Context, width float64, dash []float64, c layout.Color) {
	if width <= 0 {
		width = 0.2
	}
	dc.SetLineWidth(math.Max(r.px(width), 1))
	if len(dash) > 0 {
		px := make([]float64, len(dash))
		for i, d := range dash {
			px[i] = r.px(d)
		}
		dc.SetDash(px...)
	}
	dc.SetColor(toColor(c))
	dc.Stroke()
	dc.SetDash()
}

func (r *Renderer) drawText(dc *gg.Context, tb layout.TextBox, fr layout.FontResource) error {
	face, err := r.face(fr, tb.FontSize*layout.MmToPt)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetColor(toColor(tb.Color))
	dc.DrawString(tb.Content, r.px(tb.X), r.px(tb.Baseline))
	return nil
}

// drawImage 先用 CatmullRom 缩放到目标像素尺寸，再交给 gg 按当前裁剪区域绘制。
func (r *Renderer) drawImage(dc *gg.Context, ib layout.ImageBox) {
	src, err := r.assets.Image(ib.Path)
	if err != nil {
		logger.WarningLogger.Printf("image %s: %v", ib.Path, err)
		return
	}
	w := int(math.Round(r.px(ib.Width)))
	h := int(math.Round(r.px(ib.Height)))
	if w <= 0 || h <= 0 {
		return
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Over, nil)
	dc.DrawImage(scaled, int(math.Round(r.px(ib.X))), int(math.Round(r.px(ib.Y))))
}

// face 返回指定字号（pt）的字体面，按字体与字号缓存。
func (r *Renderer) face(fr layout.FontResource, sizePt float64) (font.Face, error) {
	key := fr.Name + "|" + fr.Src + "|" + fr.Fallback
	r.mu.Lock()
	defer r.mu.Unlock()
	if face, ok := r.faces[faceKey{key, sizePt}]; ok {
		return face, nil
	}
	f, ok := r.fonts[key]
	if !ok {
		data, err := r.assets.FontBytes(fr)
		if err != nil {
			return nil, fmt.Errorf("字体 %s: %w", fr.Name, err)
		}
		if f, err = opentype.Parse(data); err != nil {
			return nil, fmt.Errorf("解析字体 %s 失败: %w", fr.Name, err)
		}
		r.fonts[key] = f
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: sizePt, DPI: r.DPI, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("创建字体面 %s 失败: %w", fr.Name, err)
	}
	r.faces[faceKey{key, sizePt}] = face
	return face, nil
}

// rotate 顺时针旋转 90 的倍数。
func rotate(im image.Image, rotation int) image.Image {
	rotation = ((rotation % 360) + 360) % 360
	if rotation == 0 {
		return im
	}
	w, h := float64(im.Bounds().Dx()), float64(im.Bounds().Dy())
	var dc *gg.Context
	switch rotation {
	case 90:
		dc = gg.NewContext(int(h), int(w))
		dc.Translate(h, 0)
	case 180:
		dc = gg.NewContext(int(w), int(h))
		dc.Translate(w, h)
	case 270:
		dc = gg.NewContext(int(h), int(w))
		dc.Translate(0, w)
	default:
		return im
	}
	dc.Rotate(gg.Radians(float64(rotation)))
	dc.DrawImage(im, 0, 0)
	return dc.Image()
}

func toColor(c layout.Color) color.Color {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff}
}
