package layout

// 该文件定义分页结果与资源描述，供分页、渲染与调试 JSON 共用。

// Result 保存分页后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录文档使用到的字体、颜色、图片与样式定义。
type ResourceSet struct {
	Fonts  map[string]FontResource  `json:"fonts"`
	Colors map[string]Color         `json:"colors"`
	Images map[string]ImageResource `json:"images"`
	Styles map[string]Style         `json:"styles"`
}

// FontResource 描述字体资源，src 可以是文件路径、embed:* 或 builtin:* 形式。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Family   string `json:"family"` // 渲染器使用的 Family 名称
	Fallback string `json:"fallback"`
}

// ImageResource 记录图片资源，宽高统一以毫米为单位保存。
type ImageResource struct {
	Name   string  `json:"name"`
	Src    string  `json:"src"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
	Red   = Color{R: 255}
)

// Insets 以毫米为单位描述四边的间距（页边距、外边距、内边距）。
type Insets struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// UniformInsets 返回四边相同的间距。
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Right: v, Bottom: v, Left: v}
}

// Position 是页面坐标（左上角为原点，y 向下增长，单位 mm）。
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add 返回平移后的位置。
func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Box 表示一个矩形区域。
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Intersect 返回两个区域的交集，没有交集时宽高为 0。
func (b Box) Intersect(o Box) Box {
	x0 := max(b.X, o.X)
	y0 := max(b.Y, o.Y)
	x1 := min(b.X+b.Width, o.X+o.Width)
	y1 := min(b.Y+b.Height, o.Y+o.Height)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty 表示区域没有面积。
func (b Box) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// Page 记录页面尺寸与按绘制顺序排列的图元。
type Page struct {
	Index    int     `json:"index"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation int     `json:"rotation,omitempty"`
	Items    []Item  `json:"items"`
}

// ItemKind 标识图元类型。
type ItemKind string

const (
	ItemText  ItemKind = "text"
	ItemRect  ItemKind = "rect"
	ItemLine  ItemKind = "line"
	ItemImage ItemKind = "image"
)

// Item 是一次绘制调用的记录；Clip 为绘制时生效的裁剪区域（页面坐标）。
type Item struct {
	Kind  ItemKind  `json:"kind"`
	Clip  *Box      `json:"clip,omitempty"`
	Text  *TextBox  `json:"text,omitempty"`
	Rect  *Rect     `json:"rect,omitempty"`
	Line  *Line     `json:"line,omitempty"`
	Image *ImageBox `json:"image,omitempty"`
}

// TextBox 表示一个已经排好坐标的文本片段（单行、单一样式）。
type TextBox struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Baseline float64 `json:"baseline"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Font     string  `json:"font"`
	FontSize float64 `json:"fontSize"`
	Color    Color   `json:"color"`
}

// ImageBox 用于描述图片位置与尺寸。
type ImageBox struct {
	Path    string  `json:"path"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Opacity float64 `json:"opacity"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64   `json:"x1"`
	Y1    float64   `json:"y1"`
	X2    float64   `json:"x2"`
	Y2    float64   `json:"y2"`
	Color Color     `json:"color"`
	Width float64   `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
	Dash  []float64 `json:"dash,omitempty"`
}

// Rect 表示一个矩形（Radius > 0 时为圆角矩形）。
type Rect struct {
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Radius      float64   `json:"radius,omitempty"`
	StrokeColor *Color    `json:"strokeColor,omitempty"` // 为空表示不描边
	StrokeWidth float64   `json:"strokeWidth"`
	Dash        []float64 `json:"dash,omitempty"`
	FillColor   *Color    `json:"fillColor,omitempty"` // 为空表示不填充
}

// Style 用于描述可继承的样式。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
