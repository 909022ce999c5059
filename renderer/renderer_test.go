package renderer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/quire/layout"
)

type stubRenderer struct {
	out   []byte
	err   error
	pages int
}

func (s *stubRenderer) Render(result *layout.Result) ([]byte, error) {
	s.pages = len(result.Pages)
	return s.out, s.err
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.bin")
	r := &stubRenderer{out: []byte("data")}
	result := &layout.Result{Pages: []layout.Page{{}, {}}}
	if err := WriteFile(r, result, path); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if r.pages != 2 {
		t.Fatalf("渲染器应收到 2 页，实际 %d", r.pages)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "data" {
		t.Fatalf("文件内容不符: %q %v", got, err)
	}

	boom := errors.New("boom")
	failed := filepath.Join(t.TempDir(), "failed.bin")
	if err := WriteFile(&stubRenderer{err: boom}, result, failed); !errors.Is(err, boom) {
		t.Fatalf("应返回渲染错误，实际 %v", err)
	}
	if _, err := os.Stat(failed); !os.IsNotExist(err) {
		t.Fatalf("渲染失败时不应写文件")
	}
	if err := WriteFile(r, nil, path); err == nil {
		t.Fatalf("空结果应报错")
	}
}
