// Package renderer 定义输出后端的公共接口，以及各后端共享的资源加载与裁剪计算。
package renderer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ByLCY/quire/layout"
)

// Renderer 将布局结果输出为最终文件，例如 PDF 或 PNG。
// 渲染只读取 Result，同一个 Result 可以交给多个后端。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// WriteFile 渲染 result 并写入 path，必要时创建父目录。
func WriteFile(r Renderer, result *layout.Result, path string) error {
	if result == nil {
		return fmt.Errorf("没有可渲染的布局结果")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	out, err := r.Render(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}
