package layout

import (
	"slices"
	"strings"
	"unicode"

	"github.com/ByLCY/quire/logger"
)

// Alignment 是行内的水平对齐方式。
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

// DefaultParagraphSpacing 是段前、段后的默认间距（6pt）。
const DefaultParagraphSpacing = 6 * PtToMm

// Paragraph 是按最大宽度折行的多样式文本，按行切分。
//
// 文本为空时高度为 0，不占用任何空间（包括段前段后间距）。
type Paragraph struct {
	SpaceBefore float64
	SpaceAfter  float64
	Alignment   Alignment
	LineSpacing float64 // 行高系数，<=0 时按 1 处理
	Position    *Position

	runs     []TextRun
	ts       Typesetter
	maxWidth float64 // <=0 表示不限制

	lines      []TextLine
	linesWidth float64
	linesValid bool
}

var (
	_ Dividable            = (*Paragraph)(nil)
	_ WidthRespecting      = (*Paragraph)(nil)
	_ Positioned           = (*Paragraph)(nil)
	_ LeadingSpaceRemover  = (*Paragraph)(nil)
	_ TrailingSpaceTrimmer = (*Paragraph)(nil)
)

// NewParagraph 创建使用默认段落间距的空段落。
func NewParagraph(ts Typesetter) *Paragraph {
	return &Paragraph{
		SpaceBefore: DefaultParagraphSpacing,
		SpaceAfter:  DefaultParagraphSpacing,
		LineSpacing: 1,
		ts:          ts,
	}
}

// derive 复制样式与宽度约束，文本替换为 runs。
func (p *Paragraph) derive(runs []TextRun) *Paragraph {
	return &Paragraph{
		SpaceBefore: p.SpaceBefore,
		SpaceAfter:  p.SpaceAfter,
		Alignment:   p.Alignment,
		LineSpacing: p.LineSpacing,
		Position:    p.Position,
		runs:        runs,
		ts:          p.ts,
		maxWidth:    p.maxWidth,
	}
}

// AddRun 追加一个样式片段。
func (p *Paragraph) AddRun(run TextRun) {
	if run.Text == "" {
		return
	}
	p.runs = append(p.runs, run)
	p.linesValid = false
}

// AddText 以指定字体、字号（mm）与黑色追加文本。
func (p *Paragraph) AddText(text string, font FontResource, size float64) {
	p.AddRun(TextRun{Text: text, Font: font, Size: size, Color: Black})
}

// AddTextCarefully 与 AddRun 相同，但把字体中缺失的字符替换为 '?'。
func (p *Paragraph) AddTextCarefully(run TextRun) {
	if p.ts == nil {
		p.AddRun(run)
		return
	}
	var b strings.Builder
	for _, r := range run.Text {
		if r == '\n' || unicode.IsSpace(r) || p.ts.HasGlyph(run.Font, r) {
			b.WriteRune(r)
			continue
		}
		logger.WarningLogger.Printf("font %q has no glyph for %U, replaced by '?'", run.Font.Name, r)
		b.WriteRune('?')
	}
	run.Text = b.String()
	p.AddRun(run)
}

// Runs 返回段落中的样式片段。
func (p *Paragraph) Runs() []TextRun { return slices.Clone(p.runs) }

// Text 返回段落的纯文本。
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// IsEmpty 报告段落是否没有文本。
func (p *Paragraph) IsEmpty() bool { return len(p.runs) == 0 }

func (p *Paragraph) MaxWidth() float64 { return p.maxWidth }

func (p *Paragraph) SetMaxWidth(w float64) {
	if w != p.maxWidth {
		p.maxWidth = w
		p.linesValid = false
	}
}

func (p *Paragraph) AbsolutePosition() *Position { return p.Position }

func (p *Paragraph) lineSpacing() float64 {
	if p.LineSpacing <= 0 {
		return 1
	}
	return p.LineSpacing
}

func (p *Paragraph) wrap() ([]TextLine, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	if p.linesValid && p.linesWidth == p.maxWidth {
		return p.lines, nil
	}
	if p.ts == nil {
		return nil, ErrNoTypesetter
	}
	lines, err := p.ts.WrapLines(p.runs, p.maxWidth)
	if err != nil {
		return nil, err
	}
	p.lines, p.linesWidth, p.linesValid = lines, p.maxWidth, true
	return lines, nil
}

// Width 返回最宽一行的宽度。
func (p *Paragraph) Width() (float64, error) {
	lines, err := p.wrap()
	if err != nil {
		return 0, err
	}
	w := 0.0
	for _, l := range lines {
		w = max(w, l.Width)
	}
	return w, nil
}

// Height 返回段前间距、各行行高与段后间距之和。
func (p *Paragraph) Height() (float64, error) {
	lines, err := p.wrap()
	if err != nil || len(lines) == 0 {
		return 0, err
	}
	h := p.SpaceBefore + p.SpaceAfter
	for _, l := range lines {
		h += l.Height * p.lineSpacing()
	}
	return h, nil
}

// Divide 按行切分：前一部分保留段前间距，后一部分保留段后间距。
// 前一部分的高度不会超过 remaining。
func (p *Paragraph) Divide(remaining float64, _ *RenderContext, _ bool) (Divided, error) {
	full, err := p.Height()
	if err != nil {
		return Divided{}, err
	}
	if remaining < 0 {
		return Divided{First: p.derive(nil), Tail: p}, nil
	}
	if remaining >= full {
		return Divided{First: p, Tail: p.derive(nil)}, nil
	}
	lines, err := p.wrap()
	if err != nil {
		return Divided{}, err
	}
	acc := p.SpaceBefore
	n := 0
	for n < len(lines) {
		lh := lines[n].Height * p.lineSpacing()
		if acc+lh > remaining {
			break
		}
		acc += lh
		n++
	}
	switch n {
	case 0:
		return Divided{First: p.derive(nil), Tail: p}, nil
	case len(lines):
		// 所有行都放得下，只有段后间距放不下：间距留给后一部分。
		head := p.derive(slices.Clone(p.runs))
		head.SpaceAfter = 0
		return Divided{First: head, Tail: NewSpacer(p.SpaceAfter)}, nil
	}
	head := p.derive(linesToRuns(lines[:n]))
	head.SpaceAfter = 0
	tail := p.derive(linesToRuns(lines[n:]))
	tail.SpaceBefore = 0
	return Divided{First: head, Tail: tail}, nil
}

// RemoveLeadingEmptyVerticalSpace 去掉段前间距与开头的空行。
func (p *Paragraph) RemoveLeadingEmptyVerticalSpace() error {
	p.SpaceBefore = 0
	lines, err := p.wrap()
	if err != nil {
		return err
	}
	skip := 0
	for skip < len(lines) && strings.TrimSpace(lines[skip].Text()) == "" {
		skip++
	}
	if skip == 0 {
		return nil
	}
	p.runs = linesToRuns(lines[skip:])
	p.linesValid = false
	return nil
}

// TrimTrailingWhiteSpace 去掉段后间距。
func (p *Paragraph) TrimTrailingWhiteSpace() error {
	p.SpaceAfter = 0
	return nil
}

// Draw 逐行绘制文本，行在最大宽度内按 Alignment 对齐。
func (p *Paragraph) Draw(ctx *RenderContext, ul Position) error {
	lines, err := p.wrap()
	if err != nil || len(lines) == 0 {
		return err
	}
	width, err := p.Width()
	if err != nil {
		return err
	}
	avail := p.maxWidth
	if avail <= 0 {
		avail = width
	}
	y := ul.Y + p.SpaceBefore
	for i, line := range lines {
		free := max(avail-line.Width, 0)
		x := ul.X
		switch p.Alignment {
		case AlignCenter:
			x += free / 2
		case AlignRight:
			x += free
		}
		baseline := y + line.Ascent
		if p.Alignment == AlignJustify && !line.HardBreak && i < len(lines)-1 {
			err = p.drawJustified(ctx, line, x, y, baseline, free)
		} else {
			err = p.drawLine(ctx, line, x, y, baseline)
		}
		if err != nil {
			return err
		}
		y += line.Height * p.lineSpacing()
	}
	return nil
}

func (p *Paragraph) drawLine(ctx *RenderContext, line TextLine, x, y, baseline float64) error {
	for _, f := range line.Fragments {
		run := f.TextRun
		run.Text = strings.TrimRight(run.Text, "\r\n")
		if run.Text != "" {
			if err := ctx.DrawText(Position{X: x, Y: y}, baseline, run, f.Width, line.Height); err != nil {
				return err
			}
		}
		x += f.Width
	}
	return nil
}

// drawJustified 把多余的宽度平均分配到行内的词间空白。
func (p *Paragraph) drawJustified(ctx *RenderContext, line TextLine, x, y, baseline, free float64) error {
	var words []wrapToken
	for i, f := range line.Fragments {
		for _, tok := range tokenizeRuns([]TextRun{f.TextRun}) {
			tok.run = i
			words = append(words, tok)
		}
	}
	for len(words) > 0 && words[len(words)-1].kind != tokenWord {
		words = words[:len(words)-1]
	}
	gaps := 0
	for _, w := range words {
		if w.kind == tokenSpace {
			gaps++
		}
	}
	extra := 0.0
	if gaps > 0 {
		extra = free / float64(gaps)
	}
	for _, w := range words {
		run := line.Fragments[w.run].TextRun
		run.Text = w.text
		m, err := p.ts.MeasureText(run)
		if err != nil {
			return err
		}
		if w.kind == tokenSpace {
			x += m.Width + extra
			continue
		}
		if err := ctx.DrawText(Position{X: x, Y: y}, baseline, run, m.Width, line.Height); err != nil {
			return err
		}
		x += m.Width
	}
	return nil
}
