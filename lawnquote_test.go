package lawnquote

import (
	"context"
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedTemplatesContainPage(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "templates/page.tpl")
	if err != nil {
		t.Fatalf("expected page template to be readable: %v", err)
	}
	if !strings.Contains(string(data), "view.confirmation_title") {
		t.Fatalf("expected page template to render the confirmation")
	}
}

func TestRenderHTMLWithTheme(t *testing.T) {
	session := NewSession()
	defer session.Close()

	themeCfg, err := ResolveTheme(DefaultThemeSelector(), "", "")
	if err != nil {
		t.Fatalf("resolve theme: %v", err)
	}
	out, err := RenderHTML(context.Background(), session, RenderOptions{Theme: themeCfg})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page := string(out)
	if !strings.Contains(page, "Lawncare Quote") || !strings.Contains(page, "--surface") {
		t.Fatalf("unexpected page:\n%s", page)
	}
}
