package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFileSkippingShebang(t *testing.T) {
	dir := t.TempDir()

	withShebang := filepath.Join(dir, "script.mini")
	if err := os.WriteFile(withShebang, []byte("#!/usr/bin/env mini\nx = 1\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err := readFileSkippingShebang(withShebang)
	if err != nil {
		t.Fatalf("readFileSkippingShebang error: %v", err)
	}
	if string(data) != "x = 1\n" {
		t.Fatalf("expected shebang to be stripped, got %q", data)
	}

	onlyShebang := filepath.Join(dir, "only_shebang.mini")
	if err := os.WriteFile(onlyShebang, []byte("#!/bin/true"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err = readFileSkippingShebang(onlyShebang)
	if err != nil {
		t.Fatalf("readFileSkippingShebang error: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty body for shebang-only script, got %q", data)
	}

	noShebang := filepath.Join(dir, "plain.mini")
	if err := os.WriteFile(noShebang, []byte("y = 2"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err = readFileSkippingShebang(noShebang)
	if err != nil {
		t.Fatalf("readFileSkippingShebang error: %v", err)
	}
	if string(data) != "y = 2" {
		t.Fatalf("expected content unchanged, got %q", data)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()

	script := filepath.Join(dir, "prog.mini")
	src := `#!/usr/bin/env mini
inc = (n) -> (n + 1)
answer = inc(41)
`
	if err := os.WriteFile(script, []byte(src), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	ev := NewEvaluator()
	if err := RunFile(ev, script); err != nil {
		t.Fatalf("RunFile returned error: %v", err)
	}
	if val, ok := ev.Binding("answer"); !ok || val.Int() != 42 {
		t.Fatalf("expected answer = 42, got %v", val)
	}

	broken := filepath.Join(dir, "broken.mini")
	if err := os.WriteFile(broken, []byte("a = (1 / 0)\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	err := RunFile(ev, broken)
	if err == nil || !strings.HasPrefix(err.Error(), broken+": input:1:5:") {
		t.Fatalf("expected file-prefixed runtime error, got %v", err)
	}

	if err := RunFile(ev, filepath.Join(dir, "missing.mini")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRunReader(t *testing.T) {
	ev := NewEvaluator()
	if err := RunReader(ev, strings.NewReader("twice = (n) -> (n * 2)\nv = twice(21)\n")); err != nil {
		t.Fatalf("RunReader returned error: %v", err)
	}
	if val, ok := ev.Binding("v"); !ok || val.Int() != 42 {
		t.Fatalf("expected v = 42, got %v", val)
	}
	if err := RunReader(ev, strings.NewReader("v = ")); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.mini")
	if err := os.WriteFile(path, []byte("#!mini\na = 1\nb = 2\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	mod, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if len(mod.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(mod.Stmts))
	}
}
