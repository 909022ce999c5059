package layout

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/quire/dsl"
)

var approx = cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-6 })

// buildDSL 是测试辅助：解析 DSL 文本并用 stubTypesetter 构建布局结果。
func buildDSL(t *testing.T, src string, data any) *Result {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	res, err := Build(doc, data, BuildOptions{Typesetter: &stubTypesetter{}})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	return res
}

func buildDSLError(t *testing.T, src string) error {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	_, err = Build(doc, nil, BuildOptions{Typesetter: &stubTypesetter{}})
	return err
}

func textContents(p Page) []string {
	var out []string
	for _, it := range itemsOfKind(p, ItemText) {
		out = append(out, it.Text.Content)
	}
	return out
}

const reportDSL = `
doc Report v1 {
  meta {
    title: "Quarterly"
    keywords: ["finance", "internal"]
  }

  resources {
    font Body {
      src: "builtin:lmroman10-regular"
    }
    color Accent = #0F62FE
    style Title extends Body {
      size: 20
      color: Accent
    }
  }

  page custom width 100mm height 100mm margin 10mm {
    footer {
      text align right size 4mm { "${title} ${page}" }
    }
    flow {
      paragraph Title space-before 0 space-after 0 { "Hello ${user.name}" }
      frame width 100% height 50mm background Accent keep-together {}
      newpage
      table columns [30mm, 50%] {
        row {
          cell { "a" }
          cell background #EEEEEE { "b" }
        }
      }
      table data.items {
        columns {
          column 40mm {
            header: "SKU"
            field: item.sku
          }
          column 40mm {
            field: item.qty
          }
        }
      }
    }
  }
}
`

func reportData() map[string]any {
	return map[string]any{
		"title": "Q3",
		"user":  map[string]any{"name": "Lin"},
		"items": []any{
			map[string]any{"sku": "A-1", "qty": 2.0},
			map[string]any{"sku": "B-2", "qty": 5.0},
		},
	}
}

func TestBuildReport(t *testing.T) {
	res := buildDSL(t, reportDSL, reportData())
	if len(res.Pages) != 2 {
		t.Fatalf("期望 2 页，实际 %d", len(res.Pages))
	}
	if diff := cmp.Diff(DocumentMeta{Title: "Quarterly", Creator: "quire", Keywords: []string{"finance", "internal"}}, res.Meta); diff != "" {
		t.Fatalf("元信息不符 (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Hello Lin", "Q3 1"}, textContents(res.Pages[0])); diff != "" {
		t.Fatalf("第 1 页文字不符 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "SKU", "A-1", "2", "B-2", "5", "Q3 2"}, textContents(res.Pages[1])); diff != "" {
		t.Fatalf("第 2 页文字不符 (-want +got):\n%s", diff)
	}

	title := itemsOfKind(res.Pages[0], ItemText)[0].Text
	accent := Color{R: 0x0F, G: 0x62, B: 0xFE}
	if math.Abs(title.FontSize-20*PtToMm) > 1e-9 || title.Color != accent || title.Font != "Body" {
		t.Fatalf("标题样式不符: %+v", title)
	}

	rects := itemsOfKind(res.Pages[0], ItemRect)
	if len(rects) != 1 {
		t.Fatalf("期望一个背景，实际 %d", len(rects))
	}
	want := Rect{X: 10, Y: 10 + 20*PtToMm, Width: 80, Height: 50, FillColor: &accent}
	if diff := cmp.Diff(want, *rects[0].Rect, approx); diff != "" {
		t.Fatalf("背景不符 (-want +got):\n%s", diff)
	}

	footer := itemsOfKind(res.Pages[1], ItemText)[7].Text
	if footer.X != 82 || footer.Y != 93 {
		t.Fatalf("页脚应右对齐在下边距中，实际 (%g, %g)", footer.X, footer.Y)
	}

	cells := itemsOfKind(res.Pages[1], ItemRect)
	if len(cells) != 1 || cells[0].Rect.X != 40 || cells[0].Rect.Width != 40 {
		t.Fatalf("第二个单元格背景不符: %+v", cells)
	}
}

func TestBuildControls(t *testing.T) {
	res := buildDSL(t, `
doc Controls v1 {
  page custom width 100mm height 100mm margin 10mm {
    flow {
      image "a.png" width 20mm height 10mm
      mark
      move dx 30mm dy 5mm
      image "a.png" width 20mm height 10mm
      set y marked
      image "a.png" width 20mm height 10mm
      pageformat A5 landscape margin 10mm
      newpage
      flow columns 2 spacing 10mm {
        image "a.png" width 30mm height 50mm
        newcolumn
        image "a.png" width 30mm height 50mm
      }
      image "b.png" width 10mm height 10mm
    }
  }
}
`, nil)
	if len(res.Pages) != 2 {
		t.Fatalf("期望 2 页，实际 %d", len(res.Pages))
	}
	if diff := cmp.Diff([]Position{{10, 10}, {40, 25}, {40, 20}}, imagePositions(res.Pages[0])); diff != "" {
		t.Fatalf("第 1 页不符 (-want +got):\n%s", diff)
	}
	p2 := res.Pages[1]
	if p2.Width != 210 || p2.Height != 148 {
		t.Fatalf("第 2 页应为 A5 横向，实际 %gx%g", p2.Width, p2.Height)
	}
	if diff := cmp.Diff([]Position{{10, 10}, {110, 10}, {10, 60}}, imagePositions(p2)); diff != "" {
		t.Fatalf("第 2 页不符 (-want +got):\n%s", diff)
	}
}

func TestBuildLetAndSpans(t *testing.T) {
	res := buildDSL(t, `
doc Let v1 {
  resources {
    font Body { src: "builtin:lmroman10-regular" }
    font Bold { src: "builtin:lmroman10-bold" }
  }
  page custom width 100mm height 100mm margin 10mm {
    let who = data.user.name
    paragraph size 10mm {
      "Dear "
      span Bold { "${who}" }
      ","
    }
  }
}
`, map[string]any{"user": map[string]any{"name": "Lin"}})
	texts := itemsOfKind(res.Pages[0], ItemText)
	var got []string
	for _, it := range texts {
		got = append(got, it.Text.Font+":"+it.Text.Content)
	}
	if diff := cmp.Diff([]string{"Body:Dear ", "Bold:Lin", "Body:,"}, got); diff != "" {
		t.Fatalf("片段不符 (-want +got):\n%s", diff)
	}
	if texts[1].Text.FontSize != 10 {
		t.Fatalf("span 应继承段落字号，实际 %g", texts[1].Text.FontSize)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"未知命令", `doc X v1 { page A4 { blink { } } }`, ErrInvalidConfig},
		{"未定义颜色", `doc X v1 { page A4 { paragraph color Nope { "x" } } }`, ErrInvalidConfig},
		{"未定义字体", `doc X v1 { page A4 { paragraph font Nope { "x" } } }`, ErrInvalidConfig},
		{"缺少 page", `doc X v1 { meta { title: "x" } }`, ErrInvalidConfig},
		{"未知纸张", `doc X v1 { page Huge { } }`, ErrInvalidConfig},
		{"非法旋转", `doc X v1 { page A4 rotation 45 { } }`, ErrInvalidConfig},
		{"样式循环", `doc X v1 { resources { style A extends B { size: 10 } style B extends A { size: 12 } } page A4 { } }`, ErrInvalidConfig},
		{"多余单元格", `doc X v1 { page A4 { table columns [10mm] { row { cell { "a" } cell { "b" } } } } }`, ErrColumnIndex},
		{"零栏", `doc X v1 { page A4 { columns 0 } }`, ErrInvalidConfig},
		{"超高的行", `doc X v1 { page A4 { table columns [10mm] { row { cell { frame height 300mm { } } } } } }`, ErrNoProgress},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := buildDSLError(t, c.src); !errors.Is(err, c.want) {
				t.Fatalf("期望 %v，实际 %v", c.want, err)
			}
		})
	}
}

func TestBuildErrorMentionsLine(t *testing.T) {
	err := buildDSLError(t, "doc X v1 {\n  page A4 {\n    spacer\n  }\n}\n")
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("错误信息应包含行号，实际 %v", err)
	}
}

func TestBuildNestedHintsWarn(t *testing.T) {
	warnings := captureWarnings(t)
	buildDSL(t, `doc X v1 {
  page A4 {
    frame {
      paragraph gap-before 2mm { "x" }
      paragraph { "y" }
    }
  }
}`, nil)
	got := warnings.String()
	if !strings.Contains(got, "line 4: paragraph") || !strings.Contains(got, "ignored") {
		t.Fatalf("嵌套元素的布局提示应给出警告，实际 %q", got)
	}
	if strings.Contains(got, "line 5") {
		t.Fatalf("没有布局提示的元素不应警告: %q", got)
	}
}

func TestBuildWithoutTypesetter(t *testing.T) {
	doc, err := dsl.ParseString(`doc X v1 { page A4 { } }`)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	if _, err := Build(doc, nil, BuildOptions{}); !errors.Is(err, ErrNoTypesetter) {
		t.Fatalf("期望 ErrNoTypesetter，实际 %v", err)
	}
}

func TestParseArgs(t *testing.T) {
	doc, err := dsl.ParseString(`doc X v1 { page A4 { frame Box padding 1mm 2mm border 0.3mm keep-together gap-before -2mm { } } }`)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	cmd := doc.Pages()[0].Block.Commands()[0]
	a, err := parseArgs(cmd.Words(), cmd.Name)
	if err != nil {
		t.Fatalf("解析参数失败: %v", err)
	}
	want := cmdArgs{
		pos:   []string{"Box"},
		attrs: map[string]string{"padding": "1mm 2mm", "border": "0.3mm", "gap-before": "-2mm"},
		lists: map[string][]string{},
		flags: map[string]bool{"keep-together": true},
	}
	if diff := cmp.Diff(want, a, cmp.AllowUnexported(cmdArgs{})); diff != "" {
		t.Fatalf("参数不符 (-want +got):\n%s", diff)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"#fff":      White,
		"#0F62FE":   {R: 15, G: 98, B: 254},
		"#0F62FE80": {R: 15, G: 98, B: 254},
	}
	for in, want := range cases {
		got, err := parseColor(in)
		if err != nil || got != want {
			t.Fatalf("parseColor(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseColor("#12"); err == nil {
		t.Fatalf("非法颜色应报错")
	}
}
