package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-lawnquote/pkg/renderers/text"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lawnquote.yaml")
	content := "log:\n  level: error\nform:\n  notice_html: \"<em>Mon-Fri</em>\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "lawnquote dev") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := execute(t, "--config", writeConfig(t), "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<h1>Lawncare Quote</h1>", "<em>Mon-Fri</em>", ":root {"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestRenderTextToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "form.txt")
	out, err := execute(t, "--config", writeConfig(t), "render", "--format", "text", "-o", target)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Form written to") {
		t.Errorf("unexpected output %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "[ Get Quote ]") {
		t.Errorf("expected text form, got:\n%s", data)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := execute(t, "--config", writeConfig(t), "render", "--format", "pdf"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "render"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestPromptThemePlain(t *testing.T) {
	theme := promptTheme(text.PlainStyles())
	if theme.ErrorPrefix != "! " {
		t.Fatalf("unexpected error prefix %q", theme.ErrorPrefix)
	}
	if theme.InfoPrefix != "" {
		t.Fatalf("unexpected info prefix %q", theme.InfoPrefix)
	}
}
