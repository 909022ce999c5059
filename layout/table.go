package layout

import (
	"fmt"
	"slices"
)

// Table 是固定列宽的表格，按整行切分，行内部不会被拆开。
type Table struct {
	Position *Position

	widths []float64
	rows   []*Row
	ts     Typesetter
}

var (
	_ Dividable           = (*Table)(nil)
	_ Positioned          = (*Table)(nil)
	_ LeadingSpaceRemover = (*Table)(nil)
	_ MaxWidthPropagator  = (*Table)(nil)
)

// NewTable 按列宽（mm）创建表格。
func NewTable(widths ...float64) *Table {
	return &Table{widths: slices.Clone(widths)}
}

// WithTypesetter 设置单元格段落使用的排版后端。
func (t *Table) WithTypesetter(ts Typesetter) *Table {
	t.ts = ts
	return t
}

// cloneColumns 返回列定义相同、没有行的表格。
func (t *Table) cloneColumns() *Table {
	return &Table{Position: t.Position, widths: slices.Clone(t.widths), ts: t.ts}
}

// Columns 返回列数。
func (t *Table) Columns() int { return len(t.widths) }

// ColumnWidth 返回第 i 列的宽度。
func (t *Table) ColumnWidth(i int) (float64, error) {
	if i < 0 || i >= len(t.widths) {
		return 0, fmt.Errorf("%w: table has %d columns, no column #%d", ErrColumnIndex, len(t.widths), i)
	}
	return t.widths[i], nil
}

// SetColumnWidth 修改第 i 列的宽度。
func (t *Table) SetColumnWidth(i int, w float64) error {
	if i < 0 || i >= len(t.widths) {
		return fmt.Errorf("%w: table has %d columns, no column #%d", ErrColumnIndex, len(t.widths), i)
	}
	t.widths[i] = w
	for _, r := range t.rows {
		r.cells[i].GivenWidth = w
		r.cells[i].SetMaxWidth(w)
	}
	return nil
}

// AddRow 创建新行，每列一个与列同宽的单元格。
func (t *Table) AddRow() *Row {
	r := &Row{table: t}
	for _, w := range t.widths {
		cell := NewFrame(w, 0).WithTypesetter(t.ts)
		cell.SetMaxWidth(w)
		r.cells = append(r.cells, cell)
	}
	t.rows = append(t.rows, r)
	return r
}

// Rows 返回表格的行。
func (t *Table) Rows() []*Row { return slices.Clone(t.rows) }

func (t *Table) AbsolutePosition() *Position { return t.Position }

// Width 返回各列宽度之和。
func (t *Table) Width() (float64, error) {
	w := 0.0
	for _, cw := range t.widths {
		w += cw
	}
	return w, nil
}

func (t *Table) Height() (float64, error) {
	h := 0.0
	for _, r := range t.rows {
		rh, err := r.Height()
		if err != nil {
			return 0, err
		}
		h += rh
	}
	return h, nil
}

// PropagateMaxWidthToChildren 用列宽约束每个单元格。
func (t *Table) PropagateMaxWidthToChildren() error {
	for ri, r := range t.rows {
		if len(r.cells) > len(t.widths) {
			return fmt.Errorf("%w: row %d has %d cells for %d columns", ErrColumnIndex, ri+1, len(r.cells), len(t.widths))
		}
		for i, cell := range r.cells {
			cell.SetMaxWidth(t.widths[i])
			if err := cell.PropagateMaxWidthToChildren(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Table) Draw(ctx *RenderContext, ul Position) error {
	pos := ul
	for _, r := range t.rows {
		if err := r.Draw(ctx, pos); err != nil {
			return err
		}
		h, err := r.Height()
		if err != nil {
			return err
		}
		pos.Y += h
	}
	return nil
}

// Divide 只有剩余高度严格大于行高时才把该行放进前一部分。
// 比整页还高的行无法切分，分页驱动会返回 ErrNoProgress。
func (t *Table) Divide(remaining float64, _ *RenderContext, _ bool) (Divided, error) {
	full, err := t.Height()
	if err != nil {
		return Divided{}, err
	}
	if remaining < 0 {
		return Divided{First: t.cloneColumns(), Tail: t}, nil
	}
	if remaining >= full {
		return Divided{First: t, Tail: t.cloneColumns()}, nil
	}
	head, tail := t.cloneColumns(), t.cloneColumns()
	for i, r := range t.rows {
		h, err := r.Height()
		if err != nil {
			return Divided{}, err
		}
		if remaining <= h {
			tail.rows = slices.Clone(t.rows[i:])
			break
		}
		head.rows = append(head.rows, r)
		remaining -= h
	}
	return Divided{First: head, Tail: tail}, nil
}

// RemoveLeadingEmptyVerticalSpace 转交给第一行。
func (t *Table) RemoveLeadingEmptyVerticalSpace() error {
	if len(t.rows) == 0 {
		return nil
	}
	return t.rows[0].RemoveLeadingEmptyVerticalSpace()
}

// Row 是表格中的一行，每列一个 Frame 单元格。
type Row struct {
	table *Table
	cells []*Frame
}

// Cell 返回第 i 列的单元格。
func (r *Row) Cell(i int) (*Frame, error) {
	if i < 0 || i >= len(r.cells) {
		return nil, fmt.Errorf("%w: row has %d cells, no cell #%d", ErrColumnIndex, len(r.cells), i)
	}
	return r.cells[i], nil
}

func (r *Row) Width() (float64, error) { return r.table.Width() }

// Height 返回最高单元格的高度。
func (r *Row) Height() (float64, error) {
	h := 0.0
	for _, c := range r.cells {
		ch, err := c.Height()
		if err != nil {
			return 0, err
		}
		h = max(h, ch)
	}
	return h, nil
}

// Draw 并排绘制单元格，较矮的单元格拉伸到行高，使边框与背景对齐。
func (r *Row) Draw(ctx *RenderContext, ul Position) error {
	rowHeight, err := r.Height()
	if err != nil {
		return err
	}
	pos := ul
	for i, c := range r.cells {
		h, err := c.Height()
		if err != nil {
			return err
		}
		cell := c
		if h < rowHeight {
			stretched := *c
			stretched.GivenHeight = rowHeight
			cell = &stretched
		}
		if err := cell.Draw(ctx, pos); err != nil {
			return err
		}
		w, err := r.table.ColumnWidth(i)
		if err != nil {
			return err
		}
		pos.X += w
	}
	return nil
}

// RemoveLeadingEmptyVerticalSpace 对每个单元格移除开头的空白。
func (r *Row) RemoveLeadingEmptyVerticalSpace() error {
	for _, c := range r.cells {
		if err := c.RemoveLeadingEmptyVerticalSpace(); err != nil {
			return err
		}
	}
	return nil
}
