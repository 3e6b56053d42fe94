package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/itfstack/pkg/itf"
	"github.com/matzehuels/itfstack/pkg/stack"
)

func demoStack(t *testing.T) *stack.Stack {
	t.Helper()
	s, errs := itf.Check(demoITF)
	if len(errs) > 0 {
		t.Fatalf("demo does not parse: %v", errs)
	}
	return s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m LayerBrowserModel, keys ...string) (LayerBrowserModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(LayerBrowserModel)
	}
	return m, cmd
}

func TestLayerBrowserStartsAtTop(t *testing.T) {
	m := NewLayerBrowserModel(demoStack(t))

	if got := m.Selected().Base().Name; got != "pad" {
		t.Errorf("Selected() = %q, want the top layer pad", got)
	}
	if got := m.Layers[len(m.Layers)-1].Base().Name; got != "fox" {
		t.Errorf("last layer = %q, want fox", got)
	}
}

func TestLayerBrowserNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"down", []string{"down"}, "pass"},
		{"vim keys", []string{"j", "j", "k"}, "pass"},
		{"up at top stays", []string{"up", "k"}, "pad"},
		{"bottom", []string{"G"}, "fox"},
		{"down at bottom stays", []string{"G", "j"}, "fox"},
		{"top", []string{"G", "g"}, "pad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(NewLayerBrowserModel(demoStack(t)), tt.keys...)
			if got := m.Selected().Base().Name; got != tt.want {
				t.Errorf("Selected() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLayerBrowserQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		_, cmd := press(NewLayerBrowserModel(demoStack(t)), k)
		if cmd == nil {
			t.Fatalf("%s should return a command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should quit", k)
		}
	}
}

func TestLayerBrowserScrolls(t *testing.T) {
	m := NewLayerBrowserModel(demoStack(t))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = next.(LayerBrowserModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want the minimum 5", m.Height)
	}

	m, _ = press(m, "G")
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1 so the last layer is visible", m.Offset)
	}
	m, _ = press(m, "g")
	if m.Offset != 0 {
		t.Errorf("Offset = %d, want 0 after jumping to the top", m.Offset)
	}
}

func TestLayerBrowserView(t *testing.T) {
	m, _ := press(NewLayerBrowserModel(demoStack(t)), "j", "j")

	view := m.View()
	for _, want := range []string{"cli_demo", "▸", "RPSQ", "v1 " + iconArrow + " m1", "[3/6]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}
