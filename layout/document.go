package layout

import (
	"errors"
	"fmt"

	"github.com/ByLCY/quire/logger"
)

// Config 是创建 Document 所需的全部参数。
type Config struct {
	Format      PageFormat
	Typesetter  Typesetter
	Layout      Layout // 为空时使用 VerticalLayout
	ShowMargins bool   // 在每页绘制正文区域的红色边框
	Header      *Decoration
	Footer      *Decoration
	Meta        DocumentMeta
	Resources   ResourceSet
	Data        map[string]any // 页眉页脚插值使用的数据
}

// DefaultConfig 返回 A4 纵向、四边 20mm 边距的配置。
func DefaultConfig() Config {
	return Config{Format: DefaultPageFormat()}
}

type entry struct {
	element Element
	hint    LayoutHint
}

// Document 按顺序收集元素，渲染时把它们分配到页面上。每个 Document 只能渲染一次。
type Document struct {
	cfg       Config
	entries   []entry
	listeners []RenderListener
	rendered  bool
}

// NewDocument 校验配置并创建空文档。
func NewDocument(cfg Config) (*Document, error) {
	if err := cfg.Format.Validate(); err != nil {
		return nil, err
	}
	if cfg.Layout != nil {
		if cl, ok := cfg.Layout.(*ColumnLayout); ok {
			if err := cl.validate(); err != nil {
				return nil, err
			}
		}
	}
	return &Document{cfg: cfg}, nil
}

// Config 返回文档配置。
func (d *Document) Config() Config { return d.cfg }

// Typesetter 返回文档使用的排版后端。
func (d *Document) Typesetter() Typesetter { return d.cfg.Typesetter }

// Add 追加元素，可选地附带一个布局提示（多于一个时只使用第一个）。
func (d *Document) Add(e Element, hint ...LayoutHint) {
	var h LayoutHint
	if len(hint) > 0 {
		h = hint[0]
	}
	d.AddWithHint(e, h)
}

// AddWithHint 追加元素及其布局提示。
func (d *Document) AddWithHint(e Element, hint LayoutHint) {
	d.entries = append(d.entries, entry{element: e, hint: hint})
}

// Elements 返回已添加的元素数量。
func (d *Document) Elements() int { return len(d.entries) }

// NewParagraph 创建段落并加入文档。
func (d *Document) NewParagraph() *Paragraph {
	p := NewParagraph(d.cfg.Typesetter)
	d.Add(p)
	return p
}

// InteriorWidth 返回页面格式的正文宽度。
func (d *Document) InteriorWidth() float64 {
	w, _ := d.cfg.Format.Dimensions()
	return w - d.cfg.Format.Margin.Left - d.cfg.Format.Margin.Right
}

// NewInteriorFrame 创建与正文同宽的 Frame 并加入文档。
func (d *Document) NewInteriorFrame() *Frame {
	f := NewFrame(d.InteriorWidth(), 0).WithTypesetter(d.cfg.Typesetter)
	d.Add(f)
	return f
}

// AddRenderListener 注册页面监听器。
func (d *Document) AddRenderListener(l RenderListener) {
	if l != nil {
		d.listeners = append(d.listeners, l)
	}
}

// Render 渲染到 Recorder 并返回结果。
func (d *Document) Render() (*Result, error) {
	rec := NewRecorder(d.cfg.Resources, d.cfg.Meta)
	if err := d.RenderTo(rec); err != nil {
		return nil, err
	}
	return rec.Result(), nil
}

// RenderTo 依次渲染全部元素，页面按顺序交给 sink。
func (d *Document) RenderTo(sink PageSink) (err error) {
	if d.rendered {
		return ErrAlreadyRendered
	}
	d.rendered = true

	listeners := append([]RenderListener(nil), d.listeners...)
	if d.cfg.Header != nil || d.cfg.Footer != nil {
		listeners = append(listeners, &decorations{header: d.cfg.Header, footer: d.cfg.Footer, data: d.cfg.Data})
	}
	ctx := newRenderContext(sink, d.cfg.Format, d.cfg.Typesetter, listeners, d.cfg.ShowMargins)
	if d.cfg.Layout != nil {
		ctx.layout = d.cfg.Layout
	}
	if err := ctx.NewPage(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ctx.Close())
	}()

	for i, e := range d.entries {
		if err := ctx.Render(e.element, e.hint); err != nil {
			return fmt.Errorf("element %d (%T): %w", i, e.element, err)
		}
	}
	logger.ProgressLogger.Printf("rendered %d elements on %d pages", len(d.entries), ctx.PageIndex()+1)
	return nil
}
