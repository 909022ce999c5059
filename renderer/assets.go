package renderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/logger"
)

// Assets 加载渲染所需的字体与图片，相对路径以 BaseDir 为根。
// 注入的资源通过 builtin:<name> 引用，并优先于内置字体。
type Assets struct {
	BaseDir string
	Fonts   map[string][]byte
	Images  map[string][]byte

	mu     sync.Mutex
	images map[string]image.Image
}

// NewAssets 返回以 baseDir 为根的资源加载器。
func NewAssets(baseDir string) *Assets {
	return &Assets{BaseDir: baseDir, Fonts: map[string][]byte{}, Images: map[string][]byte{}}
}

// FontBytes 返回字体数据。src 加载失败时依次尝试 Fallback 与默认字体。
func (a *Assets) FontBytes(font layout.FontResource) ([]byte, error) {
	data, err := a.fontBytes(font.Src)
	if err == nil {
		return data, nil
	}
	if font.Fallback != "" {
		logger.WarningLogger.Printf("font %s: %v, using fallback %s", font.Name, err, font.Fallback)
		if data, fbErr := a.fontBytes(font.Fallback); fbErr == nil {
			return data, nil
		}
	}
	return nil, err
}

func (a *Assets) fontBytes(src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("font has no src")
	}
	if name, ok := strings.CutPrefix(src, fonts.BuiltinPrefix); ok {
		if blob, ok := a.Fonts[name]; ok {
			return blob, nil
		}
		return fonts.Load(src)
	}
	return fonts.Load(a.resolve(src))
}

// Image 解码图片并缓存，同一个 src 只解码一次。
func (a *Assets) Image(src string) (image.Image, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if img, ok := a.images[src]; ok {
		return img, nil
	}

	var data []byte
	if name, ok := strings.CutPrefix(src, fonts.BuiltinPrefix); ok {
		blob, ok := a.Images[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 %s", src)
		}
		data = blob
	} else {
		blob, err := os.ReadFile(a.resolve(src))
		if err != nil {
			return nil, fmt.Errorf("读取图片 %s 失败: %w", src, err)
		}
		data = blob
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", src, err)
	}
	if a.images == nil {
		a.images = map[string]image.Image{}
	}
	a.images[src] = img
	return img, nil
}

func (a *Assets) resolve(path string) string {
	if filepath.IsAbs(path) || a.BaseDir == "" {
		return path
	}
	return filepath.Join(a.BaseDir, path)
}

// FontFor 按 TextBox 中记录的资源名查找字体，找不到时退回 Body 或任意字体。
func FontFor(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	if font, ok := fonts[layout.DefaultFontName]; ok {
		return font
	}
	for _, font := range fonts {
		return font
	}
	return layout.FontResource{Name: layout.DefaultFontName, Src: "builtin:lmroman10-regular"}
}
