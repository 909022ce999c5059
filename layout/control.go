package layout

// Control 是不绘制任何内容的指令元素。
type Control string

const (
	// NewPage 无条件换页。
	NewPage Control = "NEW_PAGE"
	// NewColumn 在分栏布局中切换到下一栏，栏位用尽时换页。
	NewColumn Control = "NEW_COLUMN"
)

// PositionControl 是修改光标位置的指令：MarkPosition、SetPosition 或 MovePosition。
type PositionControl interface {
	applyTo(ctx *RenderContext) error
}

// MarkPosition 记录当前位置，SetPosition 可以引用它。
type MarkPosition struct{}

func (MarkPosition) applyTo(ctx *RenderContext) error {
	p := ctx.position
	ctx.marked = &p
	return nil
}

// CoordMode 决定 SetPosition 某一轴的取值来源。
type CoordMode int

const (
	CoordCurrent  CoordMode = iota // 保持当前值
	CoordAbsolute                  // 使用 Value
	CoordMarked                    // 使用 MarkPosition 记录的值
)

// Coord 是 SetPosition 的单个坐标。
type Coord struct {
	Mode  CoordMode
	Value float64
}

// At 返回绝对坐标。
func At(v float64) Coord { return Coord{Mode: CoordAbsolute, Value: v} }

// Marked 返回引用标记位置的坐标。
func Marked() Coord { return Coord{Mode: CoordMarked} }

// SetPosition 把光标设到指定位置，未给出的坐标保持不变。
type SetPosition struct {
	X, Y Coord
}

func (s SetPosition) applyTo(ctx *RenderContext) error {
	x, err := s.X.resolve(ctx, ctx.position.X, func(p Position) float64 { return p.X })
	if err != nil {
		return err
	}
	y, err := s.Y.resolve(ctx, ctx.position.Y, func(p Position) float64 { return p.Y })
	if err != nil {
		return err
	}
	ctx.SetPosition(Position{X: x, Y: y})
	return nil
}

func (c Coord) resolve(ctx *RenderContext, current float64, axis func(Position) float64) (float64, error) {
	switch c.Mode {
	case CoordAbsolute:
		return c.Value, nil
	case CoordMarked:
		if ctx.marked == nil {
			return 0, ErrNoMark
		}
		return axis(*ctx.marked), nil
	default:
		return current, nil
	}
}

// MovePosition 按偏移量移动光标（y 向下为正）。
type MovePosition struct {
	DX, DY float64
}

func (m MovePosition) applyTo(ctx *RenderContext) error {
	ctx.MovePositionBy(m.DX, m.DY)
	return nil
}
