package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/ByLCY/quire/dsl"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/logger"
	"github.com/ByLCY/quire/renderer"
	canvasrenderer "github.com/ByLCY/quire/renderer/canvas"
	"github.com/ByLCY/quire/renderer/raster"
	"github.com/ByLCY/quire/typeset"
)

// options 是命令行参数。
type options struct {
	input       string
	output      string
	debugJSON   string
	dump        bool
	dumpWidth   int
	pngDir      string
	dpi         float64
	data        string
	dataFile    string
	metrics     string
	showMargins bool
	verbose     bool
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("quire", pflag.ExitOnError)
	flags.StringVarP(&opts.input, "in", "i", "examples/demo.quire", "DSL 文件路径")
	flags.StringVarP(&opts.output, "out", "o", "output/demo.pdf", "PDF 输出路径，为空时不输出 PDF")
	flags.StringVar(&opts.debugJSON, "debug", "", "布局调试 JSON 输出路径")
	flags.BoolVar(&opts.dump, "dump", false, "在标准输出列出每页的图元")
	flags.IntVar(&opts.dumpWidth, "dump-width", 100, "--dump 的折行宽度（列）")
	flags.StringVar(&opts.pngDir, "png-dir", "", "逐页输出 PNG 的目录")
	flags.Float64Var(&opts.dpi, "dpi", raster.DefaultDPI, "PNG 分辨率")
	flags.StringVar(&opts.data, "data", "", "绑定到 DSL 的 JSON 数据")
	flags.StringVar(&opts.dataFile, "data-file", "", "绑定到 DSL 的 JSON 数据文件")
	flags.StringVar(&opts.metrics, "metrics", "canvas", "文本测量方式：canvas|mono")
	flags.BoolVar(&opts.showMargins, "show-margins", false, "在每页绘制页边距辅助线")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "输出分页过程")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: quire [flags]\n\nFlags:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		log.Fatalf("生成文档失败: %v", err)
	}
}

// run 串联解析、布局与渲染。
func run(opts options, stdout io.Writer) error {
	if opts.verbose {
		logger.EnableProgress(os.Stderr)
	}
	data, err := loadData(opts.data, opts.dataFile)
	if err != nil {
		return err
	}

	doc, err := dsl.ParseFile(opts.input)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	baseDir := filepath.Dir(opts.input)
	pdfRenderer := canvasrenderer.NewRenderer(baseDir)
	var ts layout.Typesetter
	switch opts.metrics {
	case "canvas":
		ts = pdfRenderer
	case "mono":
		ts = typeset.NewMono()
	default:
		return fmt.Errorf("未知的测量方式 %q（可选 canvas、mono）", opts.metrics)
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{
		Typesetter: ts,
		Debug:      layout.DebugOptions{ShowMargins: opts.showMargins},
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if opts.debugJSON != "" {
		if err := writeDebug(result, opts.debugJSON); err != nil {
			return err
		}
	}
	if opts.dump {
		if err := layout.WriteDebugText(stdout, result, opts.dumpWidth); err != nil {
			return fmt.Errorf("输出图元列表失败: %w", err)
		}
	}
	if opts.pngDir != "" {
		paths, err := raster.NewRenderer(baseDir, opts.dpi).WritePNGs(result, opts.pngDir)
		if err != nil {
			return fmt.Errorf("渲染 PNG 失败: %w", err)
		}
		logger.ProgressLogger.Printf("wrote %d PNG pages to %s", len(paths), opts.pngDir)
	}
	if opts.output == "" {
		return nil
	}

	if err := renderer.WriteFile(pdfRenderer, result, opts.output); err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	fmt.Fprintf(stdout, "已生成 PDF：%s（%d 页）\n", opts.output, len(result.Pages))
	return nil
}

// loadData 解析 --data 或 --data-file 给出的 JSON，两者都为空时返回 nil。
func loadData(inline, path string) (any, error) {
	raw := []byte(inline)
	if path != "" {
		if inline != "" {
			return nil, fmt.Errorf("--data 与 --data-file 只能指定一个")
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取数据文件失败: %w", err)
		}
		raw = b
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
