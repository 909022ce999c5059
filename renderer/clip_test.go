package renderer

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/quire/layout"
)

func TestClipRect(t *testing.T) {
	clip := &layout.Box{X: 10, Y: 10, Width: 50, Height: 50}
	got, ok := ClipRect(layout.Rect{X: 0, Y: 20, Width: 30, Height: 100, Radius: 2}, clip)
	if !ok {
		t.Fatalf("矩形应部分可见")
	}
	want := layout.Rect{X: 10, Y: 20, Width: 20, Height: 40}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("裁剪结果不符 (-want +got):\n%s", diff)
	}
	if _, ok := ClipRect(layout.Rect{X: 70, Y: 70, Width: 5, Height: 5}, clip); ok {
		t.Fatalf("区域外的矩形不应绘制")
	}
	inside := layout.Rect{X: 20, Y: 20, Width: 5, Height: 5, Radius: 1}
	if got, _ := ClipRect(inside, clip); !cmp.Equal(got, inside) {
		t.Fatalf("完全可见的矩形应保持不变: %+v", got)
	}
}

func TestClipLine(t *testing.T) {
	clip := &layout.Box{X: 10, Y: 0, Width: 40, Height: 100}
	got, ok := ClipLine(layout.Line{X1: 0, Y1: 60, X2: 100, Y2: 60}, clip)
	if !ok || got.X1 != 10 || got.X2 != 50 || got.Y1 != 60 || got.Y2 != 60 {
		t.Fatalf("水平线裁剪不符: %+v %v", got, ok)
	}
	if _, ok := ClipLine(layout.Line{X1: 0, Y1: 0, X2: 5, Y2: 100}, clip); ok {
		t.Fatalf("区域外的线段不应绘制")
	}
	diag, ok := ClipLine(layout.Line{X1: 0, Y1: 0, X2: 100, Y2: 100}, clip)
	if !ok || diag.X1 != 10 || diag.Y1 != 10 || diag.X2 != 50 || diag.Y2 != 50 {
		t.Fatalf("斜线裁剪不符: %+v", diag)
	}
}

func TestClipImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 1000))
	box := layout.Box{X: 10, Y: -20, Width: 20, Height: 100}
	clip := &layout.Box{X: 10, Y: 10, Width: 20, Height: 70}

	sub, visible, ok := ClipImage(img, box, clip)
	if !ok {
		t.Fatalf("图片应部分可见")
	}
	if diff := cmp.Diff(layout.Box{X: 10, Y: 10, Width: 20, Height: 70}, visible); diff != "" {
		t.Fatalf("可见区域不符 (-want +got):\n%s", diff)
	}
	if got := sub.Bounds(); got != image.Rect(0, 300, 200, 1000) {
		t.Fatalf("像素区域不符: %v", got)
	}

	if _, _, ok := ClipImage(img, box, &layout.Box{X: 50, Y: 0, Width: 10, Height: 10}); ok {
		t.Fatalf("区域外的图片不应绘制")
	}
}

func TestTextVisible(t *testing.T) {
	clip := &layout.Box{X: 0, Y: 10, Width: 100, Height: 20}
	if !TextVisible(layout.TextBox{Y: 12, Height: 4}, clip) {
		t.Fatalf("区域内的文本应可见")
	}
	if TextVisible(layout.TextBox{Y: 28, Height: 6}, clip) {
		t.Fatalf("中点在区域外的文本不应绘制")
	}
	if !TextVisible(layout.TextBox{Y: 500}, nil) {
		t.Fatalf("没有裁剪时总是可见")
	}
}

func TestAssetsImageCache(t *testing.T) {
	a := NewAssets(t.TempDir())
	if _, err := a.Image("missing.png"); err == nil {
		t.Fatalf("缺失的图片应报错")
	}
	if _, err := a.Image("builtin:logo"); err == nil {
		t.Fatalf("未注册的内置图片应报错")
	}
}
