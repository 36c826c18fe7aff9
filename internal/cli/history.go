package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/multigraph/pkg/graph"
	mio "github.com/matzehuels/multigraph/pkg/io"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

func (c *CLI) historyCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "Edit a graph interactively with undo and redo",
		Long: `History opens an interactive editor over a graph document, or over an
empty graph when no file is given.

Keys:
  a  add node            e  add edge from the selected node to the next
  d  delete selected     p  push a checkpoint
  u  pop                 r  unpop
  ↑/↓ or k/j move        q  quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			g, err := c.loadGraph(path)
			if err != nil {
				return err
			}
			defer g.Destroy()

			p := tea.NewProgram(NewHistoryModel(g),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			if _, err := p.Run(); err != nil {
				return err
			}
			if output == "" {
				return nil
			}
			if err := mio.ExportJSON(g, output); err != nil {
				return err
			}
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the edited graph as JSON on exit")
	return cmd
}

// =============================================================================
// HistoryModel - Interactive checkpoint editor
// =============================================================================

// HistoryModel is the bubbletea model of the history editor. It edits its
// graph in place.
type HistoryModel struct {
	Graph  *graph.Graph
	Cursor int
	Height int
	Offset int
	Status string
	Err    error
}

// NewHistoryModel creates an editor over g.
func NewHistoryModel(g *graph.Graph) HistoryModel {
	return HistoryModel{Graph: g, Height: 15}
}

func (m HistoryModel) Init() tea.Cmd {
	return nil
}

func (m HistoryModel) selected() (graph.Node, bool) {
	nodes := m.Graph.Nodes()
	if m.Cursor < 0 || m.Cursor >= len(nodes) {
		return graph.InvalidNode, false
	}
	return nodes[m.Cursor], true
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.Err = nil
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < m.Graph.NumberOfNodes()-1 {
				m.Cursor++
			}
		case "a":
			n := m.Graph.AddNode()
			m.Status = "added " + n.String()
		case "e":
			nodes := m.Graph.Nodes()
			src, ok := m.selected()
			if !ok {
				m.Status = "no node selected"
				break
			}
			tgt := nodes[(m.Cursor+1)%len(nodes)]
			e, err := m.Graph.AddEdge(src, tgt)
			if err != nil {
				m.Err = err
				break
			}
			m.Status = fmt.Sprintf("added %s: %s → %s", e, src, tgt)
		case "d":
			n, ok := m.selected()
			if !ok {
				m.Status = "no node selected"
				break
			}
			if err := m.Graph.DelNode(n, true); err != nil {
				m.Err = err
				break
			}
			m.Status = "deleted " + n.String()
		case "p":
			discarded := m.Graph.Push()
			m.Status = fmt.Sprintf("pushed, depth %d", m.Graph.HistoryDepth())
			if discarded {
				m.Status += ", redo discarded"
			}
		case "u":
			noop, err := m.Graph.Pop()
			if err != nil {
				m.Err = err
				break
			}
			m.Status = fmt.Sprintf("popped, depth %d", m.Graph.HistoryDepth())
			if noop {
				m.Status += " (no changes)"
			}
		case "r":
			if err := m.Graph.Unpop(); err != nil {
				m.Err = err
				break
			}
			m.Status = fmt.Sprintf("unpopped, depth %d", m.Graph.HistoryDepth())
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	m.clamp()
	return m, nil
}

// clamp keeps the cursor on a node and inside the visible window.
func (m *HistoryModel) clamp() {
	n := m.Graph.NumberOfNodes()
	m.Cursor = max(min(m.Cursor, n-1), 0)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m HistoryModel) View() string {
	var b strings.Builder
	g := m.Graph

	b.WriteString(StyleTitle.Render("History"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d nodes · %d edges · depth %d · redo %t",
		g.NumberOfNodes(), g.NumberOfEdges(), g.HistoryDepth(), g.CanUnpop())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("a add  e edge  d delete  p push  u pop  r unpop  q quit"))
	b.WriteString("\n\n")

	nodes := g.Nodes()
	end := min(m.Offset+m.Height, len(nodes))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			n.String(),
			strconv.Itoa(g.Indeg(n)),
			strconv.Itoa(g.Outdeg(n)),
			edgeList(g.Incident(n)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "In", "Out", "Incidence").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	switch {
	case m.Err != nil:
		b.WriteString(listErrorStyle.Render(iconError + " " + m.Err.Error()))
	case m.Status != "":
		b.WriteString(listDimStyle.Render(iconInfo + " " + m.Status))
	}
	return b.String()
}
