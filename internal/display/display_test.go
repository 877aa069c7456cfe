package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/sweeney/ledpad/internal/logic"
)

func TestInit(t *testing.T) {
	d := NewFakeDisplay()
	Init(d)

	want := []Call{
		{Op: "circle", X: 63, Y: 63, R: 10, Color: Foreground},
		{Op: "text", X: 10, Y: 100, Text: "circle move #:"},
		{Op: "text", X: 10, Y: 110, Text: "000", Opaque: true},
	}
	if len(d.Calls) != len(want) {
		t.Fatalf("expected %d calls, got %d: %+v", len(want), len(d.Calls), d.Calls)
	}
	for i, w := range want {
		if d.Calls[i] != w {
			t.Errorf("call %d: got %+v, want %+v", i, d.Calls[i], w)
		}
	}
}

func TestRender(t *testing.T) {
	d := NewFakeDisplay()
	Render(d, logic.Move{From: 63, To: 53, Count: 12})

	want := []Call{
		{Op: "circle", X: 63, Y: 63, R: 10, Color: Background},
		{Op: "circle", X: 53, Y: 63, R: 10, Color: Foreground},
		{Op: "text", X: 10, Y: 110, Text: "012", Opaque: true},
	}
	if len(d.Calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(d.Calls))
	}
	for i, w := range want {
		if d.Calls[i] != w {
			t.Errorf("call %d: got %+v, want %+v", i, d.Calls[i], w)
		}
	}
	if d.LastText() != "012" {
		t.Errorf("LastText: got %q", d.LastText())
	}

	d.Reset()
	if len(d.Calls) != 0 || d.LastText() != "" {
		t.Error("Reset should clear calls")
	}
}

func TestRGBString(t *testing.T) {
	if got := Background.String(); got != "#0000FF" {
		t.Errorf("Background: got %q", got)
	}
	if got := Foreground.String(); got != "#FFFF00" {
		t.Errorf("Foreground: got %q", got)
	}
}

func TestLogDisplay(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)

	d := NewLogDisplay(log)
	Render(d, logic.Move{From: 63, To: 73, Count: 1})

	out := buf.String()
	for _, want := range []string{"fill circle", "x=73", "color=\"#FFFF00\"", "draw text", "text=001", "component=display"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
