package layout

import (
	"testing"
)

func TestSpacerDivide(t *testing.T) {
	s := NewSpacer(50)
	d, err := s.Divide(20, nil, false)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	if a, b := heightOrFail(t, d.First), heightOrFail(t, d.Tail); a != 20 || b != 30 {
		t.Fatalf("期望 20/30，实际 %g/%g", a, b)
	}
	d, _ = s.Divide(-5, nil, false)
	if a, b := heightOrFail(t, d.First), heightOrFail(t, d.Tail); a != 0 || b != 50 {
		t.Fatalf("期望 0/50，实际 %g/%g", a, b)
	}
	d, _ = s.Divide(80, nil, false)
	if a, b := heightOrFail(t, d.First), heightOrFail(t, d.Tail); a != 50 || b != 0 {
		t.Fatalf("期望 50/0，实际 %g/%g", a, b)
	}
	if got := heightOrFail(t, NewSpacer(-3)); got != 0 {
		t.Fatalf("负高度应按 0 处理，实际 %g", got)
	}
}

func TestCutterDivide(t *testing.T) {
	img, err := NewImage("chart.png", 20, 100)
	if err != nil {
		t.Fatalf("创建图片失败: %v", err)
	}
	c, err := NewCutter(img)
	if err != nil {
		t.Fatalf("创建视口失败: %v", err)
	}
	d, err := c.Divide(30, nil, true)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	first, tail := d.First.(*Cutter), d.Tail.(*Cutter)
	if first.viewportY != 0 || first.viewportH != 30 {
		t.Fatalf("前一部分视口不符: %+v", first)
	}
	if tail.viewportY != 30 || tail.viewportH != 70 {
		t.Fatalf("后一部分视口不符: %+v", tail)
	}
	d, err = tail.Divide(50, nil, true)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	if got := d.Tail.(*Cutter); got.viewportY != 80 || got.viewportH != 20 {
		t.Fatalf("再次切分视口不符: %+v", got)
	}
}

func TestCutterDrawShiftsAndClips(t *testing.T) {
	img, _ := NewImage("chart.png", 20, 100)
	c, _ := NewCutter(img)
	d, _ := c.Divide(30, nil, true)

	rec := NewRecorder(ResourceSet{}, DocumentMeta{})
	cfg := smallPage()
	ctx := newRenderContext(rec, cfg.Format, cfg.Typesetter, nil, false)
	if err := ctx.NewPage(); err != nil {
		t.Fatalf("打开页面失败: %v", err)
	}
	if err := d.Tail.Draw(ctx, Position{X: 10, Y: 10}); err != nil {
		t.Fatalf("绘制失败: %v", err)
	}
	items := rec.Result().Pages[0].Items
	if len(items) != 1 {
		t.Fatalf("期望一个图片，实际 %d", len(items))
	}
	im := items[0]
	if im.Image.Y != -20 {
		t.Fatalf("内容应上移视口偏移量，y 期望 -20，实际 %g", im.Image.Y)
	}
	if im.Clip == nil || *im.Clip != (Box{X: 10, Y: 10, Width: 20, Height: 70}) {
		t.Fatalf("裁剪区域不符: %+v", im.Clip)
	}
}
