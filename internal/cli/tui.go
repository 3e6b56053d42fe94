package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/itfstack/pkg/stack"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailPaneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// =============================================================================
// LayerBrowserModel - Interactive stack browser
// =============================================================================

// LayerBrowserModel is the bubbletea model of the inspect command. Layers
// are listed top of the stack first, as in a cross-section.
type LayerBrowserModel struct {
	Stack  *stack.Stack
	Layers []stack.Layer
	Cursor int
	Height int
	Offset int
}

// NewLayerBrowserModel creates a browser positioned on the top layer.
func NewLayerBrowserModel(s *stack.Stack) LayerBrowserModel {
	layers := s.Layers()
	slices.Reverse(layers)
	return LayerBrowserModel{
		Stack:  s,
		Layers: layers,
		Height: 15,
	}
}

// Selected returns the layer under the cursor, or nil for an empty stack.
func (m LayerBrowserModel) Selected() stack.Layer {
	if len(m.Layers) == 0 {
		return nil
	}
	return m.Layers[m.Cursor]
}

func (m LayerBrowserModel) Init() tea.Cmd {
	return nil
}

func (m LayerBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Layers)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Layers)-1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m LayerBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Stack.Technology().Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	if len(m.Layers) == 0 {
		b.WriteString(listDimStyle.Render("  no layers"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Layers))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		l := m.Layers[i]
		base := l.Base()
		span, _ := m.Stack.Span(base.Name)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, base.Name, string(l.Kind()), formatFloat(base.Thickness), formatFloat(span.Top)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "Layer", "Kind", "Thickness", "Top").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Layers) {
				return lipgloss.NewStyle()
			}
			style := kindStyle(m.Layers[idx].Kind())
			if idx == m.Cursor {
				return style.Bold(true)
			}
			if col == 2 {
				return style
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	var detail strings.Builder
	printLayer(&detail, m.Stack, m.Selected())

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		t.Render(),
		" ",
		detailPaneStyle.Render(strings.TrimRight(detail.String(), "\n")),
	))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Layers))))

	return b.String()
}

// inspectCommand creates the inspect command, an interactive layer browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Browse the layers of an ITF file interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadStack(cmd, args[0], flags)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewLayerBrowserModel(res.Stack),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)

	return cmd
}
