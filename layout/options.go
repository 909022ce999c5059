package layout

// BuildOptions 配置 DSL 构建阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	Debug      DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	ShowMargins bool // 在每页绘制页边距辅助线
}

// Typesetter 负责测量文本并将其拆成可绘制的行，单位均为毫米。
type Typesetter interface {
	// MeasureText 测量单行文本；即使 Text 为空，Height 与 Ascent 也来自字体度量。
	MeasureText(run TextRun) (TextMetrics, error)
	// HasGlyph 报告字体是否包含该字符。
	HasGlyph(font FontResource, r rune) bool
	// WrapLines 按 maxWidth 折行，maxWidth <= 0 表示不限制宽度。
	WrapLines(runs []TextRun, maxWidth float64) ([]TextLine, error)
}

// TextRun 是一段使用同一字体、字号与颜色的文本。
type TextRun struct {
	Text  string       `json:"text"`
	Font  FontResource `json:"font"`
	Size  float64      `json:"size"` // 字号（mm）
	Color Color        `json:"color"`
}

// TextMetrics 是一段文本的测量结果。
type TextMetrics struct {
	Width  float64
	Height float64
	Ascent float64
}

// Fragment 是行内的一个样式片段。
type Fragment struct {
	TextRun
	Width float64 `json:"width"`
}

// TextLine 是折行后的一行，Width 不包含行尾空白。
type TextLine struct {
	Fragments []Fragment `json:"fragments"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Ascent    float64    `json:"ascent"`
	HardBreak bool       `json:"hardBreak"` // 以换行符结束
}

// Text 返回该行的原始文本（包含行尾空白与换行符）。
func (l TextLine) Text() string {
	n := 0
	for _, f := range l.Fragments {
		n += len(f.Text)
	}
	b := make([]byte, 0, n)
	for _, f := range l.Fragments {
		b = append(b, f.Text...)
	}
	return string(b)
}
