package layout

import "errors"

var (
	// ErrUnsupportedElement 表示当前布局无法处理该元素。
	ErrUnsupportedElement = errors.New("layout: unsupported element")
	// ErrColumnIndex 表示表格列下标越界。
	ErrColumnIndex = errors.New("layout: column index out of range")
	// ErrNoProgress 表示元素在页面顶部仍然无法切出任何内容，继续分页只会产生空页。
	ErrNoProgress = errors.New("layout: element cannot be divided at top of page")
	// ErrAlreadyRendered 表示文档已经渲染过一次。
	ErrAlreadyRendered = errors.New("layout: document already rendered")
	// ErrNoTypesetter 表示文本元素缺少排版后端。
	ErrNoTypesetter = errors.New("layout: no typesetter configured")
	// ErrNoMark 表示引用了尚未标记的位置。
	ErrNoMark = errors.New("layout: no position has been marked")
	// ErrInvalidConfig 表示参数不合法，例如列数小于 1 或旋转角度不是 90 的倍数。
	ErrInvalidConfig = errors.New("layout: invalid configuration")
	// ErrNoPage 表示当前没有打开的页面。
	ErrNoPage = errors.New("layout: no open page")
)
