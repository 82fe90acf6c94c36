package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type result struct {
	status int
	stdout string
	stderr string
}

// invoke runs the command with colour disabled and HOME pointed at an empty
// directory so no user settings leak in.
func invoke(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg := filepath.Join(home, "test.yaml")
	if err := os.WriteFile(cfg, []byte("color: false\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	argv := append([]string{"mini", "-c", cfg}, args...)
	var stdout, stderr bytes.Buffer
	status, err := run(argv, strings.NewReader(stdin), &stdout, &stderr)
	if err != nil {
		t.Fatalf("run(%q) returned error: %v", args, err)
	}
	return result{status: status, stdout: stdout.String(), stderr: stderr.String()}
}

func writeScript(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestEvaluateFlag(t *testing.T) {
	res := invoke(t, "", "-e", "sum(10 20) (2 * 3)")
	if res.status != 0 || res.stdout != "30\n6\n" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestFilesThenExpressions(t *testing.T) {
	script := writeScript(t, "fact.mini", `#!/usr/bin/env mini
factorial = (n) -> if n then (n * factorial((n - 1))) else 1
`)
	res := invoke(t, "", "-e", "factorial(5)", script)
	if res.status != 0 || res.stdout != "120\n" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestBufferedREPL(t *testing.T) {
	stdin := "x = 10\naddx = (a) ->\n  (a + x)\naddx(2)\n\n42 12\n"
	res := invoke(t, stdin)
	if res.status != 0 || res.stdout != "12\n42\n12\n" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestBufferedREPLReportsErrorsAndContinues(t *testing.T) {
	res := invoke(t, "x = )\nunknown\n(1 + 2)\n")
	if res.status != 1 {
		t.Fatalf("expected status 1, got %+v", res)
	}
	if !strings.Contains(res.stderr, "input:1:5: syntax error") {
		t.Fatalf("expected positioned syntax error, got %q", res.stderr)
	}
	if !strings.Contains(res.stderr, "undefined name: unknown") {
		t.Fatalf("expected undefined name error, got %q", res.stderr)
	}
	if res.stdout != "3\n" {
		t.Fatalf("expected later input to run, got %q", res.stdout)
	}
}

func TestBufferedREPLTruncatedInput(t *testing.T) {
	res := invoke(t, "f = (a) ->")
	if res.status != 1 || !strings.Contains(res.stderr, "unexpected end of input") {
		t.Fatalf("expected end of input error, got %+v", res)
	}
}

func TestRuntimeErrorStatus(t *testing.T) {
	res := invoke(t, "", "-e", "(1 / 0)")
	if res.status != 1 || !strings.Contains(res.stderr, "input:1:1: division by zero") {
		t.Fatalf("unexpected result %+v", res)
	}

	script := writeScript(t, "bad.mini", "y = nope\n")
	res = invoke(t, "", script)
	if res.status != 1 || !strings.Contains(res.stderr, script+": input:1:5: undefined name: nope") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestDumpAST(t *testing.T) {
	res := invoke(t, "", "-a", "-e", "(1 + 2)")
	if res.status != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	for _, want := range []string{"ExprList", "BinaryExpr", "NumberLit", "\n3\n"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("expected %q in dump, got %q", want, res.stdout)
		}
	}
}

func TestVerboseLogsCalls(t *testing.T) {
	res := invoke(t, "", "-v", "-e", "negate(4)")
	if res.status != 0 || res.stdout != "-4\n" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.Contains(res.stderr, "function call") || !strings.Contains(res.stderr, "negate") {
		t.Fatalf("expected call log, got %q", res.stderr)
	}

	res = invoke(t, "", "-e", "negate(4)")
	if res.stderr != "" {
		t.Fatalf("expected quiet stderr without -v, got %q", res.stderr)
	}
}

func TestConfigMaxDepth(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "mini.yaml")
	if err := os.WriteFile(cfg, []byte("color: false\nmax_depth: 5\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	script := writeScript(t, "down.mini", "down = (n) -> if n then down((n - 1)) else 0\n")

	t.Setenv("HOME", dir)
	var stdout, stderr bytes.Buffer
	status, err := run([]string{"mini", "-c", cfg, "-e", "down(3) down(10)", script}, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if status != 1 || !strings.Contains(stderr.String(), "maximum call depth 5 exceeded") {
		t.Fatalf("expected recursion error, got status %d stderr %q", status, stderr.String())
	}
}

func TestHelpAndBadOptions(t *testing.T) {
	res := invoke(t, "", "-h")
	if res.status != 0 || !strings.HasPrefix(res.stdout, "usage: mini") {
		t.Fatalf("unexpected help output %+v", res)
	}

	var stdout, stderr bytes.Buffer
	if _, err := run([]string{"mini", "-z"}, strings.NewReader(""), &stdout, &stderr); err == nil {
		t.Fatalf("expected error for unknown option")
	}
	if _, err := run([]string{"mini", "-c", filepath.Join(t.TempDir(), "absent.yaml")}, strings.NewReader(""), &stdout, &stderr); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadConfig(filepath.Join(home, "missing.yaml"), false)
	if err != nil {
		t.Fatalf("missing default config should not fail: %v", err)
	}
	if cfg.Prompt != "mini> " || !cfg.colorEnabled() || cfg.HistoryFile != filepath.Join(home, ".mini_history") {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	path := filepath.Join(home, "rc.yaml")
	src := "prompt: \"> \"\nhistory_file: ~/hist\ncolor: false\nmax_depth: 42\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig returned error: %v", err)
	}
	if cfg.Prompt != "> " || cfg.ContinuationPrompt != ".... " || cfg.colorEnabled() || cfg.MaxDepth != 42 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.HistoryFile != filepath.Join(home, "hist") {
		t.Fatalf("expected expanded history path, got %q", cfg.HistoryFile)
	}

	empty := filepath.Join(home, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(empty, true); err != nil {
		t.Fatalf("empty config should give defaults: %v", err)
	}

	bad := filepath.Join(home, "bad.yaml")
	if err := os.WriteFile(bad, []byte("colour: true\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(bad, true); err == nil || !strings.Contains(err.Error(), "config: parse") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}
