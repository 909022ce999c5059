package binding

import "testing"

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"title": "月报",
		"total": 12.5,
		"count": 3,
		"user":  map[string]any{"name": "Lin"},
		"items": []any{map[string]any{"sku": "A-1"}, map[string]any{"sku": "B-2"}},
		"grid":  [][]int{{1, 2}, {3, 4}},
	}
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${title}", "月报"},
		{"合计 ${total} / ${count}", "合计 12.5 / 3"},
		{"${user.name}", "Lin"},
		{"${items[1].sku}", "B-2"},
		{"${grid[1][0]}", "3"},
		{"${missing}", "${missing}"},
		{"${missing|无}", "无"},
		{"${missing|}", ""},
		{"${items[5].sku|-}", "-"},
		{"${ title }", "月报"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q) 期望 %q，实际 %q", c.in, c.want, got)
		}
	}
}

func TestLookup(t *testing.T) {
	data := map[string]any{"a": map[string]string{"b": "c"}, "n": nil}
	if v, ok := Lookup(data, "a.b"); !ok || v != "c" {
		t.Fatalf("期望找到 c，实际 %v %v", v, ok)
	}
	if _, ok := Lookup(data, "a.b.c"); ok {
		t.Fatalf("字符串不能继续取字段")
	}
	if _, ok := Lookup(data, "a[0]"); ok {
		t.Fatalf("map 不能按下标取值")
	}
	if _, ok := Lookup(data, "a[x]"); ok {
		t.Fatalf("非法下标应查找失败")
	}
	if _, ok := Lookup(nil, "a"); ok {
		t.Fatalf("nil 数据应查找失败")
	}
	if got := Interpolate("[${n}]", data); got != "[]" {
		t.Fatalf("nil 值应输出空字符串，实际 %q", got)
	}
}
