package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunDemo(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	opts := options{
		input:     filepath.Join("examples", "demo.quire"),
		output:    filepath.Join(dir, "demo.pdf"),
		debugJSON: filepath.Join(dir, "debug", "layout.json"),
		dump:      true,
		dumpWidth: 80,
		pngDir:    filepath.Join(dir, "png"),
		dpi:       30,
		dataFile:  filepath.Join("examples", "demo.json"),
		metrics:   "canvas",
	}
	if err := run(opts, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	pdf, err := os.ReadFile(opts.output)
	if err != nil || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected a PDF file, err=%v", err)
	}
	if _, err := os.Stat(opts.debugJSON); err != nil {
		t.Fatalf("debug JSON missing: %v", err)
	}
	pngs, _ := filepath.Glob(filepath.Join(opts.pngDir, "page-*.png"))
	if len(pngs) < 2 {
		t.Fatalf("expected at least 2 PNG pages, got %v", pngs)
	}
	dump := out.String()
	for _, want := range []string{"page 1", "page 2", "ACME", "Page 1"} {
		if !strings.Contains(dump, want) {
			t.Fatalf("dump should contain %q:\n%s", want, dump)
		}
	}
}

func TestRunMonoWithoutOutput(t *testing.T) {
	var out bytes.Buffer
	opts := options{
		input:   filepath.Join("examples", "demo.quire"),
		data:    `{"customer": {"name": "Mono"}, "items": []}`,
		metrics: "mono",
		dump:    true,
	}
	if err := run(opts, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Mono") {
		t.Fatalf("dump should contain the bound name:\n%s", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	base := options{input: filepath.Join("examples", "demo.quire"), metrics: "canvas"}

	bad := base
	bad.metrics = "pixels"
	if err := run(bad, &bytes.Buffer{}); err == nil {
		t.Fatalf("unknown metrics should fail")
	}

	bad = base
	bad.data, bad.dataFile = "{}", "data.json"
	if err := run(bad, &bytes.Buffer{}); err == nil {
		t.Fatalf("--data and --data-file together should fail")
	}

	bad = base
	bad.data = "{"
	if err := run(bad, &bytes.Buffer{}); err == nil {
		t.Fatalf("invalid JSON should fail")
	}

	bad = base
	bad.input = filepath.Join(t.TempDir(), "missing.quire")
	if err := run(bad, &bytes.Buffer{}); err == nil {
		t.Fatalf("missing input should fail")
	}
}
