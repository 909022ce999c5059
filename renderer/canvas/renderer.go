package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/logger"
	"github.com/ByLCY/quire/renderer"
)

const defaultStrokeWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas and measures
// text with the same font faces, so layout and output agree on widths.
type Renderer struct {
	assets *renderer.Assets

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
	glyphFonts   map[string]*sfnt.Font
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // extra fonts accessible via builtin:<name>
	Images  map[string]Resource // images accessible via builtin:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		assets:       renderer.NewAssets(opts.BaseDir),
		fontFamilies: map[string]*fontFamilyEntry{},
		glyphFonts:   map[string]*sfnt.Font{},
	}
	ingest(r.assets.Fonts, opts.Fonts)
	ingest(r.assets.Images, opts.Images)
	return r
}

func ingest(dst map[string][]byte, src map[string]Resource) {
	for name, res := range src {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			dst[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				logger.WarningLogger.Printf("resource %s: %v", name, err)
				continue
			}
			dst[name] = data
		}
	}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if page.Rotation != 0 {
			logger.WarningLogger.Printf("page %d: PDF output does not support rotation %d, page is written unrotated", i+1, page.Rotation)
		}
		if err := r.drawPage(ctx, page, result.Resources); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawPage 按记录顺序回放图元。canvas 没有裁剪路径，带 Clip 的图元先在几何上裁剪。
func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, resources layout.ResourceSet) error {
	for _, it := range page.Items {
		switch it.Kind {
		case layout.ItemRect:
			if rc, ok := renderer.ClipRect(*it.Rect, it.Clip); ok {
				drawRect(ctx, rc)
			}
		case layout.ItemLine:
			if ln, ok := renderer.ClipLine(*it.Line, it.Clip); ok {
				drawLine(ctx, ln)
			}
		case layout.ItemText:
			if !renderer.TextVisible(*it.Text, it.Clip) {
				continue
			}
			font := renderer.FontFor(it.Text.Font, resources.Fonts)
			if err := r.drawTextBox(ctx, *it.Text, font); err != nil {
				return err
			}
		case layout.ItemImage:
			r.drawImage(ctx, *it.Image, it.Clip)
		}
	}
	return nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, font layout.FontResource) error {
	// TextBox 的坐标/字号均为 mm；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(font, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}
	ctx.DrawText(tb.X, tb.Baseline, canvas.NewTextLine(face, tb.Content, canvas.Left))
	return nil
}

// drawImage 读取失败时只记录警告，页面其余内容照常输出。
func (r *Renderer) drawImage(ctx *canvas.Context, ib layout.ImageBox, clip *layout.Box) {
	img, err := r.assets.Image(ib.Path)
	if err != nil {
		logger.WarningLogger.Printf("image %s: %v", ib.Path, err)
		return
	}
	img, box, ok := renderer.ClipImage(img, layout.Box{X: ib.X, Y: ib.Y, Width: ib.Width, Height: ib.Height}, clip)
	if !ok {
		return
	}
	dpmm := float64(img.Bounds().Dx()) / box.Width
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(box.X, box.Y, img, canvas.DPMM(dpmm))
}

func drawLine(ctx *canvas.Context, ln layout.Line) {
	w := ln.Width
	if w <= 0 {
		w = defaultStrokeWidth
	}
	ctx.SetFillColor(color.RGBA{})
	ctx.SetStrokeColor(colorFromLayout(ln.Color))
	ctx.SetStrokeWidth(w)
	ctx.SetDashes(0, ln.Dash...)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
	ctx.DrawPath(ln.X1, ln.Y1, p)
	ctx.SetDashes(0)
}

// drawRect 绘制矩形：Recorder 把填充与描边记录为两个图元，这里只需处理其一。
func drawRect(ctx *canvas.Context, rc layout.Rect) {
	if rc.FillColor != nil {
		ctx.SetFillColor(colorFromLayout(*rc.FillColor))
	} else {
		ctx.SetFillColor(color.RGBA{})
	}
	if rc.StrokeColor != nil {
		w := rc.StrokeWidth
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetStrokeColor(colorFromLayout(*rc.StrokeColor))
		ctx.SetStrokeWidth(w)
		ctx.SetDashes(0, rc.Dash...)
	} else {
		ctx.SetStrokeColor(color.RGBA{})
		ctx.SetStrokeWidth(0)
	}
	path := canvas.Rectangle(rc.Width, rc.Height)
	if rc.Radius > 0 {
		path = canvas.RoundedRectangle(rc.Width, rc.Height, rc.Radius)
	}
	ctx.DrawPath(rc.X, rc.Y, path)
	ctx.SetDashes(0)
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = layout.DefaultFontName
	}
	data, err := r.assets.FontBytes(font)
	if err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("字体 %s: %w", font.Name, err)
	}
	family := canvas.NewFontFamily(familyName)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", font.Name, err)
	}
	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

// glyphFont 返回用于字符检查的字体，解析失败时返回 nil。
func (r *Renderer) glyphFont(font layout.FontResource) *sfnt.Font {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if f, ok := r.glyphFonts[key]; ok {
		return f
	}
	var parsed *sfnt.Font
	if data, err := r.assets.FontBytes(font); err == nil {
		if parsed, err = sfnt.Parse(data); err != nil {
			logger.WarningLogger.Printf("font %s: %v", font.Name, err)
			parsed = nil
		}
	}
	r.glyphFonts[key] = parsed
	return parsed
}

// fontWeights 按匹配顺序排列：extrabold 要先于 bold 检查。
var fontWeights = []struct {
	names []string
	style canvas.FontStyle
}{
	{[]string{"black", "heavy"}, canvas.FontBlack},
	{[]string{"extrabold", "ultrabold"}, canvas.FontExtraBold},
	{[]string{"semibold", "demibold"}, canvas.FontSemiBold},
	{[]string{"bold"}, canvas.FontBold},
	{[]string{"medium"}, canvas.FontMedium},
	{[]string{"light"}, canvas.FontLight},
}

// parseFontStyle 把 "bold italic" 之类的描述转换为 canvas 字重与斜体标志。
func parseFontStyle(desc string) canvas.FontStyle {
	s := strings.ToLower(desc)
	style := canvas.FontRegular
weights:
	for _, w := range fontWeights {
		for _, name := range w.names {
			if strings.Contains(s, name) {
				style = w.style
				break weights
			}
		}
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		style |= canvas.FontItalic
	}
	return style
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s|%s", font.Name, font.Src, font.Style, font.Fallback)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
