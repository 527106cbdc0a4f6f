package render

import (
	"strings"
	"testing"
)

func TestSanitizeNotice(t *testing.T) {
	input := `  <p class="hint">Call <a href="tel:5551234" onclick="steal()">us</a><script>alert(1)</script> <b>today</b></p> `
	got := SanitizeNotice(input)

	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Fatalf("expected script and handlers stripped, got %q", got)
	}
	for _, keep := range []string{`<p class="hint">`, `href="tel:5551234"`, "<b>today</b>"} {
		if !strings.Contains(got, keep) {
			t.Fatalf("expected %q to survive sanitising, got %q", keep, got)
		}
	}
}

func TestSanitizeNotice_Empty(t *testing.T) {
	if got := SanitizeNotice("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := SanitizeNotice(`<script>x</script>`); got != "" {
		t.Fatalf("expected script-only markup to vanish, got %q", got)
	}
}
