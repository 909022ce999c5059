package layout

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/ByLCY/quire/binding"
	"github.com/ByLCY/quire/dsl"
	"github.com/ByLCY/quire/logger"
)

const (
	defaultFontSize   = 12 * PtToMm
	defaultRulerWidth = 0.2
	cellPadding       = 1.2
)

// Build 把 DSL AST 编译为 Document 并渲染，返回记录下来的页面。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	d, err := Compile(doc, data, opts)
	if err != nil {
		return nil, err
	}
	return d.Render()
}

// Compile 把 DSL AST 编译为尚未渲染的 Document。
//
// 第一个 page 段落决定初始页面格式与页眉页脚；之后的每个 page 段落从新页开始，
// 并使用自己的页面格式。
func Compile(doc *dsl.Document, data any, opts BuildOptions) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidConfig)
	}
	if opts.Typesetter == nil {
		return nil, ErrNoTypesetter
	}
	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	pages := doc.Pages()
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: document has no page section", ErrInvalidConfig)
	}

	b := &builder{res: res, ts: opts.Typesetter, scope: dataScope(data)}
	first, err := parseArgs(pages[0].Spec.Words(), "page")
	if err != nil {
		return nil, err
	}
	format, err := b.pageFormat(pages[0].Spec.Size, first, DefaultPageFormat())
	if err != nil {
		return nil, err
	}
	cfg := Config{
		Format:      format,
		Typesetter:  opts.Typesetter,
		ShowMargins: opts.Debug.ShowMargins || first.flags["showmargins"],
		Meta:        collectMeta(doc),
		Resources:   res,
		Data:        b.scope,
	}
	if err := b.decorations(pages[0].Block, &cfg); err != nil {
		return nil, err
	}
	d, err := NewDocument(cfg)
	if err != nil {
		return nil, err
	}
	b.format = cfg.Format

	for i, page := range pages {
		if i > 0 {
			args, err := parseArgs(page.Spec.Words(), "page")
			if err != nil {
				return nil, err
			}
			f, err := b.pageFormat(page.Spec.Size, args, b.format)
			if err != nil {
				return nil, err
			}
			b.format = f
			d.Add(f)
			d.Add(NewPage)
		}
		if err := b.block(page.Block, d.AddWithHint); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// dataScope 返回插值作用域：数据本身的键可以直接引用，也可以通过 data.* 引用。
func dataScope(data any) map[string]any {
	scope := map[string]any{}
	if m, ok := data.(map[string]any); ok {
		maps.Copy(scope, m)
	}
	if data != nil {
		scope["data"] = data
	}
	return scope
}

type builder struct {
	res    ResourceSet
	ts     Typesetter
	scope  map[string]any
	format PageFormat // 最近一次声明的页面格式，用于百分比宽度
}

type addFunc func(Element, LayoutHint)

// contentWidth 返回当前页面格式的正文宽度。
func (b *builder) contentWidth() float64 {
	w, _ := b.format.Dimensions()
	return w - b.format.Margin.Left - b.format.Margin.Right
}

func (b *builder) text(s string) string { return binding.Interpolate(s, b.scope) }

// pageFormat 解析 `A4 landscape margin 20mm rotation 90` 形式的页面参数，未给出的部分沿用 base。
func (b *builder) pageFormat(size string, a cmdArgs, base PageFormat) (PageFormat, error) {
	f := base
	if size != "" && !strings.EqualFold(size, "custom") {
		ps, ok := LookupPageSize(size)
		if !ok {
			return f, fmt.Errorf("%w: unknown page size %s", ErrInvalidConfig, size)
		}
		f.Size = ps
	}
	var err error
	if f.Size.Width, err = a.length("width", f.Size.Width); err != nil {
		return f, err
	}
	if f.Size.Height, err = a.length("height", f.Size.Height); err != nil {
		return f, err
	}
	switch {
	case a.flags["landscape"]:
		f.Orientation = Landscape
	case a.flags["portrait"]:
		f.Orientation = Portrait
	}
	if m, ok, err := a.insets("margin"); err != nil {
		return f, err
	} else if ok {
		f.Margin = m
	}
	if v, ok := a.attrs["rotation"]; ok {
		if f.Rotation, err = strconv.Atoi(v); err != nil {
			return f, fmt.Errorf("%w: rotation %q", ErrInvalidConfig, v)
		}
	}
	if f.HeaderHeight, err = a.length("header-height", f.HeaderHeight); err != nil {
		return f, err
	}
	if f.FooterHeight, err = a.length("footer-height", f.FooterHeight); err != nil {
		return f, err
	}
	return f, f.Validate()
}

// decorations 读取 header/footer 定义，写入 cfg。
func (b *builder) decorations(blk *dsl.Block, cfg *Config) error {
	for _, cmd := range blk.Commands() {
		if cmd.Name != "header" && cmd.Name != "footer" {
			continue
		}
		a, err := parseArgs(cmd.Words(), cmd.Name)
		if err != nil {
			return err
		}
		h, err := a.length("height", 0)
		if err != nil {
			return err
		}
		dec, err := b.decoration(cmd)
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", cmd.Pos.Line, cmd.Name, err)
		}
		if cmd.Name == "header" {
			cfg.Header = dec
			cfg.Format.HeaderHeight = max(cfg.Format.HeaderHeight, h)
		} else {
			cfg.Footer = dec
			cfg.Format.FooterHeight = max(cfg.Format.FooterHeight, h)
		}
	}
	return nil
}

// decoration 使用块中的第一个 text/paragraph 命令；文本在绘制时再插值，以便使用 ${page}。
func (b *builder) decoration(cmd *dsl.Command) (*Decoration, error) {
	for _, inner := range cmd.Block.Commands() {
		if inner.Name != "text" && inner.Name != "paragraph" {
			logger.WarningLogger.Printf("line %d: %s only supports text, ignoring %s", inner.Pos.Line, cmd.Name, inner.Name)
			continue
		}
		a, err := b.styledArgs(inner)
		if err != nil {
			return nil, err
		}
		run, err := b.runStyle(a, TextRun{})
		if err != nil {
			return nil, err
		}
		align, err := parseAlignment(a.attrs["align"])
		if err != nil {
			return nil, err
		}
		return &Decoration{Text: inner.Block.Text(), Font: run.Font, Size: run.Size, Color: run.Color, Align: align}, nil
	}
	return nil, nil
}

// styledArgs 解析命令参数。第一个位置参数可以是样式名（合并样式属性）或字体名。
func (b *builder) styledArgs(cmd *dsl.Command) (cmdArgs, error) {
	a, err := parseArgs(cmd.Words(), cmd.Name)
	if err != nil {
		return a, err
	}
	if len(a.pos) > 0 {
		if style, ok := b.res.Styles[a.pos[0]]; ok {
			a = a.withStyle(style)
		} else if _, ok := b.res.Fonts[a.pos[0]]; ok && !a.has("font") {
			a.attrs["font"] = a.pos[0]
		}
	}
	return a, nil
}

// runStyle 以 base 为基础应用 font/size/color 属性。
func (b *builder) runStyle(a cmdArgs, base TextRun) (TextRun, error) {
	run := base
	if name, ok := a.attrs["font"]; ok || run.Font.Name == "" {
		font, err := resolveFontResource(name, b.res)
		if err != nil {
			return run, err
		}
		run.Font = font
	}
	if v, ok := a.attrs["size"]; ok {
		size, err := parseFontSize(v)
		if err != nil {
			return run, err
		}
		run.Size = size
	} else if run.Size <= 0 {
		run.Size = defaultFontSize
	}
	if v, ok := a.attrs["color"]; ok {
		c, err := resolveColor(v, b.res)
		if err != nil {
			return run, err
		}
		run.Color = c
	}
	return run, nil
}

// block 依次编译块内的命令。
func (b *builder) block(blk *dsl.Block, add addFunc) error {
	for _, cmd := range blk.Commands() {
		if err := b.command(cmd, add); err != nil {
			return fmt.Errorf("line %d: %s: %w", cmd.Pos.Line, cmd.Name, err)
		}
	}
	return nil
}

func (b *builder) command(cmd *dsl.Command, add addFunc) error {
	switch cmd.Name {
	case "header", "footer":
		return nil
	case "flow":
		return b.flow(cmd, add)
	case "let":
		return b.let(cmd)
	case "newpage":
		add(NewPage, nil)
		return nil
	case "newcolumn":
		add(NewColumn, nil)
		return nil
	}
	if ctl, ok, err := b.control(cmd); ok || err != nil {
		if err == nil {
			add(ctl, nil)
		}
		return err
	}
	d, hint, err := b.drawable(cmd)
	if err != nil {
		return err
	}
	add(d, hint)
	return nil
}

// flow 可以带 columns/spacing，此时块内使用分栏布局，结束后恢复纵向布局。
func (b *builder) flow(cmd *dsl.Command, add addFunc) error {
	a, err := parseArgs(cmd.Words(), cmd.Name)
	if err != nil {
		return err
	}
	v, ok := a.attrs["columns"]
	if !ok {
		return b.block(cmd.Block, add)
	}
	cols, err := b.columnLayout(v, a)
	if err != nil {
		return err
	}
	add(cols, nil)
	if err := b.block(cmd.Block, add); err != nil {
		return err
	}
	add(&VerticalLayout{}, nil)
	return nil
}

func (b *builder) columnLayout(count string, a cmdArgs) (*ColumnLayout, error) {
	n, err := strconv.Atoi(count)
	if err != nil {
		return nil, fmt.Errorf("%w: column count %q", ErrInvalidConfig, count)
	}
	spacing, err := a.length("spacing", 0)
	if err != nil {
		return nil, err
	}
	l, err := NewColumnLayout(n, spacing)
	if err != nil {
		return nil, err
	}
	l.KeepLeadingEmptyVerticalSpace = a.flags["keep-leading-space"]
	return l, nil
}

// let 在插值作用域中定义别名：`let total = data.summary.total`。
func (b *builder) let(cmd *dsl.Command) error {
	words := cmd.Words()
	if len(words) != 3 || words[1].Text != "=" {
		return fmt.Errorf("%w: expected `let name = path`", ErrInvalidConfig)
	}
	v, ok := binding.Lookup(b.scope, words[2].Text)
	if !ok {
		logger.WarningLogger.Printf("let %s: %s not found in data", words[0].Text, words[2].Text)
	}
	b.scope[words[0].Text] = v
	return nil
}

// control 编译不绘制内容的指令，ok 为 false 表示 cmd 不是指令。
func (b *builder) control(cmd *dsl.Command) (Element, bool, error) {
	switch cmd.Name {
	case "mark":
		return MarkPosition{}, true, nil
	case "set":
		a, err := parseArgs(cmd.Words(), cmd.Name)
		if err != nil {
			return nil, true, err
		}
		x, err := coordArg(a, "x")
		if err != nil {
			return nil, true, err
		}
		y, err := coordArg(a, "y")
		if err != nil {
			return nil, true, err
		}
		return SetPosition{X: x, Y: y}, true, nil
	case "move":
		a, err := parseArgs(cmd.Words(), cmd.Name)
		if err != nil {
			return nil, true, err
		}
		dx, err := a.length("dx", 0)
		if err != nil {
			return nil, true, err
		}
		dy, err := a.length("dy", 0)
		if err != nil {
			return nil, true, err
		}
		return MovePosition{DX: dx, DY: dy}, true, nil
	case "columns":
		a, err := parseArgs(cmd.Words(), cmd.Name)
		if err != nil {
			return nil, true, err
		}
		if len(a.pos) != 1 {
			return nil, true, fmt.Errorf("%w: expected `columns <n> [spacing <len>]`", ErrInvalidConfig)
		}
		l, err := b.columnLayout(a.pos[0], a)
		return l, true, err
	case "vertical":
		a, err := parseArgs(cmd.Words(), cmd.Name)
		if err != nil {
			return nil, true, err
		}
		return &VerticalLayout{KeepLeadingEmptyVerticalSpace: a.flags["keep-leading-space"]}, true, nil
	case "pageformat":
		a, err := parseArgs(cmd.Words(), cmd.Name)
		if err != nil {
			return nil, true, err
		}
		size := ""
		if len(a.pos) > 0 {
			size = a.pos[0]
		}
		f, err := b.pageFormat(size, a, b.format)
		if err != nil {
			return nil, true, err
		}
		b.format = f
		return f, true, nil
	}
	return nil, false, nil
}

// coordArg 解析 set 的坐标：长度、marked，或缺省（保持当前值）。
func coordArg(a cmdArgs, key string) (Coord, error) {
	v, ok := a.attrs[key]
	if !ok {
		return Coord{}, nil
	}
	if strings.EqualFold(v, "marked") {
		return Marked(), nil
	}
	mm, err := ParseLength(v)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return At(mm), nil
}

// drawable 编译可绘制元素及其纵向布局提示。
func (b *builder) drawable(cmd *dsl.Command) (Drawable, LayoutHint, error) {
	a, err := b.styledArgs(cmd)
	if err != nil {
		return nil, nil, err
	}
	var d Drawable
	switch cmd.Name {
	case "paragraph", "text":
		d, err = b.paragraph(cmd, a, TextRun{})
	case "frame":
		d, err = b.frame(cmd, a)
	case "table":
		d, err = b.table(cmd, a)
	case "image":
		d, err = b.image(a)
	case "ruler":
		d, err = b.ruler(a)
	case "spacer":
		d, err = b.spacer(a)
	default:
		return nil, nil, fmt.Errorf("%w: unknown command %q", ErrInvalidConfig, cmd.Name)
	}
	if err != nil {
		return nil, nil, err
	}
	hint, err := verticalHintArgs(cmd.Name, a)
	if err != nil {
		return nil, nil, err
	}
	return d, hint, nil
}

// verticalHintArgs 读取 gap-before/gap-after/indent-left/indent-right/block-align/overlay。
// 除段落外，align 也表示整体对齐。
func verticalHintArgs(name string, a cmdArgs) (LayoutHint, error) {
	var vh VerticalLayoutHint
	var err error
	alignKey := "block-align"
	if name != "paragraph" && name != "text" && !a.has(alignKey) {
		alignKey = "align"
	}
	if vh.Alignment, err = parseAlignment(a.attrs[alignKey]); err != nil {
		return nil, err
	}
	if vh.MarginTop, err = a.length("gap-before", 0); err != nil {
		return nil, err
	}
	if vh.MarginBottom, err = a.length("gap-after", 0); err != nil {
		return nil, err
	}
	if vh.MarginLeft, err = a.length("indent-left", 0); err != nil {
		return nil, err
	}
	if vh.MarginRight, err = a.length("indent-right", 0); err != nil {
		return nil, err
	}
	vh.ResetY = a.flags["overlay"]
	if vh == (VerticalLayoutHint{}) {
		return nil, nil
	}
	return vh, nil
}

// children 编译 frame/cell 内的子元素，只允许可绘制元素。
func (b *builder) children(blk *dsl.Block) ([]Drawable, error) {
	var out []Drawable
	for _, cmd := range blk.Commands() {
		d, hint, err := b.drawable(cmd)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", cmd.Pos.Line, cmd.Name, err)
		}
		if hint != nil {
			logger.WarningLogger.Printf("line %d: %s: gap, indent, block alignment and overlay are ignored inside a frame or cell", cmd.Pos.Line, cmd.Name)
		}
		out = append(out, d)
	}
	return out, nil
}

// paragraph 编译 `paragraph [Style] [attrs] { "text" span Style { "text" } ... }`。
func (b *builder) paragraph(cmd *dsl.Command, a cmdArgs, inherit TextRun) (*Paragraph, error) {
	if cmd.Block == nil {
		return nil, fmt.Errorf("%w: %s needs a text block", ErrInvalidConfig, cmd.Name)
	}
	p := NewParagraph(b.ts)
	if err := b.paragraphStyle(p, a); err != nil {
		return nil, err
	}
	base, err := b.runStyle(a, inherit)
	if err != nil {
		return nil, err
	}
	for _, st := range cmd.Block.Statements {
		switch {
		case st.Text != nil:
			run := base
			run.Text = b.text(string(st.Text.Value))
			p.AddTextCarefully(run)
		case st.Command != nil && st.Command.Name == "span":
			sa, err := b.styledArgs(st.Command)
			if err != nil {
				return nil, err
			}
			run, err := b.runStyle(sa, base)
			if err != nil {
				return nil, err
			}
			run.Text = b.text(st.Command.Block.Text())
			p.AddTextCarefully(run)
		case st.Command != nil:
			return nil, fmt.Errorf("%w: %s is not allowed inside a paragraph", ErrInvalidConfig, st.Command.Name)
		}
	}
	return p, nil
}

func (b *builder) paragraphStyle(p *Paragraph, a cmdArgs) error {
	var err error
	if p.Alignment, err = parseAlignment(a.attrs["align"]); err != nil {
		return err
	}
	if v, ok := a.attrs["line-spacing"]; ok {
		if p.LineSpacing, err = ParseLineSpacing(v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if p.SpaceBefore, err = a.length("space-before", p.SpaceBefore); err != nil {
		return err
	}
	if p.SpaceAfter, err = a.length("space-after", p.SpaceAfter); err != nil {
		return err
	}
	if p.Position, err = a.position(); err != nil {
		return err
	}
	if w, err := a.dimension("width", b.contentWidth(), 0); err != nil {
		return err
	} else if w > 0 {
		p.SetMaxWidth(w)
	}
	return nil
}

// frame 编译 `frame [attrs] { children }`。
func (b *builder) frame(cmd *dsl.Command, a cmdArgs) (*Frame, error) {
	w, err := a.dimension("width", b.contentWidth(), 0)
	if err != nil {
		return nil, err
	}
	h, err := a.length("height", 0)
	if err != nil {
		return nil, err
	}
	f := NewFrame(w, h).WithTypesetter(b.ts)
	if err := b.boxStyle(f, a); err != nil {
		return nil, err
	}
	f.KeepTogether = a.flags["keep-together"]
	f.StartNewPage = a.flags["new-page"]
	if f.NeedSpace, err = a.length("need-space", 0); err != nil {
		return nil, err
	}
	if f.Position, err = a.position(); err != nil {
		return nil, err
	}
	children, err := b.children(cmd.Block)
	if err != nil {
		return nil, err
	}
	f.AddAll(children...)
	return f, nil
}

// boxStyle 应用 margin/padding/border/background，frame 与表格单元格共用。
func (b *builder) boxStyle(f *Frame, a cmdArgs) error {
	if m, ok, err := a.insets("margin"); err != nil {
		return err
	} else if ok {
		f.Margin = m
	}
	if p, ok, err := a.insets("padding"); err != nil {
		return err
	} else if ok {
		f.Padding = p
	}
	if v, ok := a.attrs["background"]; ok {
		c, err := resolveColor(v, b.res)
		if err != nil {
			return err
		}
		f.Background = &c
	}
	if !a.has("border") {
		return nil
	}
	bw, err := a.length("border", 0)
	if err != nil {
		return err
	}
	border := &Border{Stroke: Stroke{Width: bw}}
	if v, ok := a.attrs["border-color"]; ok {
		if border.Color, err = resolveColor(v, b.res); err != nil {
			return err
		}
	}
	if border.Stroke.Dash, err = parseDash(a.attrs["border-style"]); err != nil {
		return err
	}
	radius, err := a.length("radius", 0)
	if err != nil {
		return err
	}
	if radius > 0 {
		border.Shape = Shape{Kind: RoundRectShape, Radius: radius}
	}
	f.Border = border
	return nil
}

// table 编译两种表格写法：
//
//	table columns [40mm, 60mm] { row { cell { ... } cell { ... } } }
//	table data.items { columns { column 50% { header: "Name" field: item.name } } }
func (b *builder) table(cmd *dsl.Command, a cmdArgs) (*Table, error) {
	var columns *dsl.Command
	for _, inner := range cmd.Block.Commands() {
		if inner.Name == "columns" {
			columns = inner
		}
	}
	if columns != nil {
		return b.dataTable(cmd, a, columns)
	}
	list, ok := a.lists["columns"]
	if !ok {
		return nil, fmt.Errorf("%w: table needs `columns [...]`", ErrInvalidConfig)
	}
	widths, err := b.columnWidths(list)
	if err != nil {
		return nil, err
	}
	t := NewTable(widths...).WithTypesetter(b.ts)
	if t.Position, err = a.position(); err != nil {
		return nil, err
	}
	for _, rowCmd := range cmd.Block.Commands() {
		if rowCmd.Name != "row" {
			return nil, fmt.Errorf("%w: line %d: %s is not allowed inside a table", ErrInvalidConfig, rowCmd.Pos.Line, rowCmd.Name)
		}
		if err := b.row(t, rowCmd); err != nil {
			return nil, fmt.Errorf("line %d: row: %w", rowCmd.Pos.Line, err)
		}
	}
	return t, nil
}

func (b *builder) columnWidths(list []string) ([]float64, error) {
	widths := make([]float64, 0, len(list))
	for _, v := range list {
		w, err := parseDimension(v, b.contentWidth())
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("%w: column width %q", ErrInvalidConfig, v)
		}
		widths = append(widths, w)
	}
	return widths, nil
}

func (b *builder) row(t *Table, cmd *dsl.Command) error {
	ra, err := b.styledArgs(cmd)
	if err != nil {
		return err
	}
	row := t.AddRow()
	for i, cellCmd := range cmd.Block.Commands() {
		if cellCmd.Name != "cell" {
			return fmt.Errorf("%w: %s is not allowed inside a row", ErrInvalidConfig, cellCmd.Name)
		}
		cell, err := row.Cell(i)
		if err != nil {
			return err
		}
		ca, err := b.styledArgs(cellCmd)
		if err != nil {
			return err
		}
		if err := b.fillCell(cell, cellCmd.Block, ca.withStyle(Style{Props: ra.attrs})); err != nil {
			return err
		}
	}
	return nil
}

// fillCell 设置单元格样式；只有文本的单元格直接生成一个段落。
func (b *builder) fillCell(cell *Frame, blk *dsl.Block, a cmdArgs) error {
	cell.Padding = UniformInsets(cellPadding)
	if err := b.boxStyle(cell, a); err != nil {
		return err
	}
	if blk == nil {
		return nil
	}
	if len(blk.Commands()) == 0 {
		p, err := b.paragraph(&dsl.Command{Name: "cell", Block: blk}, a, TextRun{})
		if err != nil {
			return err
		}
		p.SpaceBefore, p.SpaceAfter = 0, 0
		cell.Add(p)
		return nil
	}
	children, err := b.children(blk)
	if err != nil {
		return err
	}
	cell.AddAll(children...)
	return nil
}

// dataTable 为数据中的每一项生成一行，可选地在最前面加一行表头。
func (b *builder) dataTable(cmd *dsl.Command, a cmdArgs, columns *dsl.Command) (*Table, error) {
	if len(a.pos) == 0 {
		return nil, fmt.Errorf("%w: data table needs a data path", ErrInvalidConfig)
	}
	type column struct {
		header   string
		template string
		args     cmdArgs
	}
	var cols []column
	var list []string
	for _, c := range columns.Block.Commands() {
		if c.Name != "column" {
			return nil, fmt.Errorf("%w: %s is not allowed inside columns", ErrInvalidConfig, c.Name)
		}
		ca, err := b.styledArgs(c)
		if err != nil {
			return nil, err
		}
		if len(ca.pos) == 0 {
			return nil, fmt.Errorf("%w: line %d: column needs a width", ErrInvalidConfig, c.Pos.Line)
		}
		list = append(list, ca.pos[0])
		assign := c.Block.Assignments()
		col := column{header: assign["header"].Text(), args: ca}
		switch {
		case assign["text"] != nil:
			col.template = assign["text"].Text()
		case assign["field"] != nil:
			col.template = "${" + assign["field"].Text() + "|}"
		}
		cols = append(cols, col)
	}
	widths, err := b.columnWidths(list)
	if err != nil {
		return nil, err
	}
	t := NewTable(widths...).WithTypesetter(b.ts)
	if t.Position, err = a.position(); err != nil {
		return nil, err
	}

	addRow := func(texts []string, header bool) error {
		row := t.AddRow()
		for i, text := range texts {
			cell, _ := row.Cell(i)
			ca := cols[i].args.clone()
			if header && a.has("header-style") {
				ca = ca.withStyle(b.res.Styles[a.attrs["header-style"]])
			}
			cell.Padding = UniformInsets(cellPadding)
			if err := b.boxStyle(cell, ca); err != nil {
				return err
			}
			if text == "" {
				continue
			}
			run, err := b.runStyle(ca, TextRun{})
			if err != nil {
				return err
			}
			p := NewParagraph(b.ts)
			p.SpaceBefore, p.SpaceAfter = 0, 0
			if p.Alignment, err = parseAlignment(ca.attrs["align"]); err != nil {
				return err
			}
			run.Text = text
			p.AddTextCarefully(run)
			cell.Add(p)
		}
		return nil
	}

	var headers []string
	hasHeader := false
	for _, c := range cols {
		headers = append(headers, b.text(c.header))
		hasHeader = hasHeader || c.header != ""
	}
	if hasHeader {
		if err := addRow(headers, true); err != nil {
			return nil, err
		}
	}
	v, ok := binding.Lookup(b.scope, a.pos[0])
	if !ok {
		logger.WarningLogger.Printf("table %s: not found in data", a.pos[0])
		return t, nil
	}
	items, ok := binding.Items(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a list", ErrInvalidConfig, a.pos[0])
	}
	for i, item := range items {
		scope := maps.Clone(b.scope)
		scope["item"] = item
		scope["index"] = i + 1
		texts := make([]string, len(cols))
		for j, c := range cols {
			texts[j] = binding.Interpolate(c.template, scope)
		}
		if err := addRow(texts, false); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// image 编译 `image <资源名或 "路径"> [width w] [height h] [x .. y ..]`。
func (b *builder) image(a cmdArgs) (*Image, error) {
	if len(a.pos) == 0 {
		return nil, fmt.Errorf("%w: image needs a resource name or a path", ErrInvalidConfig)
	}
	name := a.pos[0]
	src := name
	var w, h float64
	if r, ok := b.res.Images[name]; ok {
		src, w, h = r.Src, r.Width, r.Height
	}
	ratio := 0.0
	if w > 0 && h > 0 {
		ratio = h / w
	}
	var err error
	if a.has("width") {
		if w, err = a.dimension("width", b.contentWidth(), 0); err != nil {
			return nil, err
		}
		if !a.has("height") && ratio > 0 {
			h = w * ratio
		}
	}
	if a.has("height") {
		if h, err = a.length("height", 0); err != nil {
			return nil, err
		}
		if !a.has("width") && ratio > 0 {
			w = h / ratio
		}
	}
	img, err := NewImage(src, w, h)
	if err != nil {
		return nil, err
	}
	if img.Position, err = a.position(); err != nil {
		return nil, err
	}
	return img, nil
}

func (b *builder) ruler(a cmdArgs) (*Ruler, error) {
	w, err := a.length("width", defaultRulerWidth)
	if err != nil {
		return nil, err
	}
	r := NewRuler(Stroke{Width: w}, Black)
	if v, ok := a.attrs["color"]; ok {
		if r.Color, err = resolveColor(v, b.res); err != nil {
			return nil, err
		}
	}
	if r.Stroke.Dash, err = parseDash(a.attrs["dash"]); err != nil {
		return nil, err
	}
	return r, nil
}

func (b *builder) spacer(a cmdArgs) (*Spacer, error) {
	if len(a.pos) != 1 {
		return nil, fmt.Errorf("%w: expected `spacer <length>`", ErrInvalidConfig)
	}
	h, err := ParseLength(a.pos[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return NewSpacer(h), nil
}
