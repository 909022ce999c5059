package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteDebugText 以可读文本列出每页的图元，文本内容按 width 列折行。
func WriteDebugText(w io.Writer, res *Result, width int) error {
	if res == nil {
		return nil
	}
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	for _, p := range res.Pages {
		fmt.Fprintf(&b, "page %d  %.1fx%.1fmm", p.Index+1, p.Width, p.Height)
		if p.Rotation != 0 {
			fmt.Fprintf(&b, "  rotate %d", p.Rotation)
		}
		b.WriteString("\n")
		for _, it := range p.Items {
			b.WriteString(indent.String(describeItem(it, width-4), 2))
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func describeItem(it Item, width int) string {
	var s string
	switch it.Kind {
	case ItemText:
		t := it.Text
		head := fmt.Sprintf("text  %6.1f %6.1f  %5.1fx%-5.1f %s", t.X, t.Y, t.Width, t.Height, t.Font)
		s = head + "\n" + indent.String(wordwrap.String(strings.TrimSpace(t.Content), width-4), 4)
	case ItemRect:
		r := it.Rect
		s = fmt.Sprintf("rect  %6.1f %6.1f  %5.1fx%-5.1f", r.X, r.Y, r.Width, r.Height)
		if r.FillColor != nil {
			s += fmt.Sprintf(" fill=%s", hexColor(*r.FillColor))
		}
		if r.StrokeColor != nil {
			s += fmt.Sprintf(" stroke=%s/%.2f", hexColor(*r.StrokeColor), r.StrokeWidth)
		}
	case ItemLine:
		l := it.Line
		s = fmt.Sprintf("line  %6.1f %6.1f -> %6.1f %6.1f %s", l.X1, l.Y1, l.X2, l.Y2, hexColor(l.Color))
	case ItemImage:
		im := it.Image
		s = fmt.Sprintf("image %6.1f %6.1f  %5.1fx%-5.1f %s", im.X, im.Y, im.Width, im.Height, im.Path)
	default:
		s = string(it.Kind)
	}
	if it.Clip != nil {
		s += fmt.Sprintf("\n    clip %.1f %.1f %.1fx%.1f", it.Clip.X, it.Clip.Y, it.Clip.Width, it.Clip.Height)
	}
	return s
}

func hexColor(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
