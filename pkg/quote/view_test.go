package quote

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestView_IdleForm(t *testing.T) {
	session, _, _ := newTestSession()
	mustNoErr(t, session.SetLength("7.5"))
	mustNoErr(t, session.SetArea(AreaBoth))
	if _, err := session.SelectPhotos(context.Background(), photos("front.jpg", "nope.png", "back.jpg")); err != nil {
		t.Fatalf("select: %v", err)
	}

	want := View{
		Title:          FormTitle,
		Length:         "7.5",
		Area:           AreaBoth,
		AreaOptions:    AreaOptions(),
		Previews:       []string{"/previews/p1", "/previews/p2"},
		Errors:         []string{RejectionMessage("nope.png")},
		PhotoHint:      PhotoHint,
		SubmitDisabled: false,
		SubmitLabel:    SubmitLabel,
	}
	if diff := cmp.Diff(want, session.View()); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
}

func TestView_Idempotent(t *testing.T) {
	session, _, _ := newTestSession()
	if _, err := session.SelectPhotos(context.Background(), photos("front.jpg")); err != nil {
		t.Fatalf("select: %v", err)
	}
	first := session.View()
	second := session.View()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("views differ without an intervening event:\n%s", diff)
	}
}

func TestAreaOptions_Order(t *testing.T) {
	got := AreaOptions()
	want := []AreaOption{
		{Value: "", Label: "Select..."},
		{Value: "front", Label: "Front yard"},
		{Value: "back", Label: "Back yard"},
		{Value: "both", Label: "Both"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	got[0].Label = "mutated"
	if AreaOptions()[0].Label != "Select..." {
		t.Fatalf("AreaOptions must return a copy")
	}
}
