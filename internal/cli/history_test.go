package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m HistoryModel, keys ...string) HistoryModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(HistoryModel)
	}
	return m
}

func TestHistoryModelEdits(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		wantNodes int
		wantEdges int
		wantDepth int
		wantErr   errs.Code
	}{
		{"add nodes", []string{"a", "a"}, 2, 0, 0, ""},
		{"add edge", []string{"a", "a", "e"}, 2, 1, 0, ""},
		{"delete cascades", []string{"a", "a", "e", "d"}, 1, 0, 0, ""},
		{"pop restores", []string{"a", "a", "e", "p", "d", "u"}, 2, 1, 0, ""},
		{"unpop redoes", []string{"a", "a", "e", "p", "d", "u", "r"}, 1, 0, 1, ""},
		{"pop without checkpoint", []string{"a", "u"}, 1, 0, 0, errs.ErrCodeNoCheckpoint},
		{"unpop without redo", []string{"r"}, 0, 0, 0, errs.ErrCodeNoRedo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New()
			m := press(t, NewHistoryModel(g), tt.keys...)

			if g.NumberOfNodes() != tt.wantNodes || g.NumberOfEdges() != tt.wantEdges {
				t.Errorf("got %d nodes %d edges, want %d and %d",
					g.NumberOfNodes(), g.NumberOfEdges(), tt.wantNodes, tt.wantEdges)
			}
			if g.HistoryDepth() != tt.wantDepth {
				t.Errorf("depth = %d, want %d", g.HistoryDepth(), tt.wantDepth)
			}
			if tt.wantErr == "" && m.Err != nil {
				t.Errorf("unexpected error %v", m.Err)
			}
			if tt.wantErr != "" && !errs.Is(m.Err, tt.wantErr) {
				t.Errorf("error = %v, want code %s", m.Err, tt.wantErr)
			}
		})
	}
}

func TestHistoryModelCursor(t *testing.T) {
	m := press(t, NewHistoryModel(graph.New()), "a", "a", "a", "j", "j", "j")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor)
	}
	m = press(t, m, "d")
	if m.Cursor != 1 {
		t.Errorf("cursor after delete = %d, want 1", m.Cursor)
	}
	m = press(t, m, "k", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
	if m.View() == "" {
		t.Error("View() returned an empty string")
	}
}

func TestHistoryModelQuit(t *testing.T) {
	_, cmd := NewHistoryModel(graph.New()).Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
