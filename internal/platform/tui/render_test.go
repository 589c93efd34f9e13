package tui

import (
	"strings"
	"testing"

	"github.com/jfxdev02-arch/mergcrush/internal/core"
)

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(12, 3)
	s.DrawText(0, 0, "Score: 60")
	s.DrawTextColored(0, 1, "128", core.ColorBrightYellow)
	s.DrawTextColored(4, 1, "64", core.ColorRed)

	out := RenderScreen(s)

	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("rendered %d line breaks, want 2", got)
	}
	if !strings.Contains(out, "Score: 60") {
		t.Errorf("default-colored text missing from %q", out)
	}
	for _, want := range []string{"128", "64"} {
		if !strings.Contains(out, want) {
			t.Errorf("colored text %q missing from %q", want, out)
		}
	}
}

func TestScreenRendererEmptyScreen(t *testing.T) {
	if out := NewScreenRenderer(nil).Render(core.NewScreen(0, 0)); out != "" {
		t.Errorf("Render(empty) = %q, want empty", out)
	}
}
