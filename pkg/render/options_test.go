package render

import "testing"

func TestRenderOptions_ResolvedActions(t *testing.T) {
	got := RenderOptions{Actions: Actions{Submit: "/quote"}}.ResolvedActions()
	if got.Submit != "/quote" || got.Photos != "/photos" || got.Close != "/session/close" {
		t.Fatalf("unexpected actions: %+v", got)
	}
}
