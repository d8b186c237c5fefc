package tree

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

var (
	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(1)
)

// node is one flattened, displayable row of the document tree: a label
// (the map key or vector index it was reached by, "$" for the root), the
// Reference it points to, its nesting depth, and whether it is currently
// expanded.
type node struct {
	label    string
	path     string
	ref      flexbuffers.Reference
	depth    int
	expanded bool
}

func (n node) expandable() bool {
	return n.ref.Type() == flexbuffers.TypeMap || n.ref.Type().IsVector()
}

// Browser is a bubbletea model that lets a user walk a decoded document
// interactively, expanding and collapsing maps and vectors.
type Browser struct {
	root     node
	expanded map[string]bool
	rows     []node
	cursor   int
	height   int
}

// NewBrowser returns a Browser positioned at ref's root, with the root
// expanded by default.
func NewBrowser(ref flexbuffers.Reference) Browser {
	b := Browser{expanded: map[string]bool{"": true}}
	b.root = node{label: "$", path: "", ref: ref, depth: 0}
	b.rebuild()
	return b
}

func (b *Browser) rebuild() {
	b.rows = nil
	b.walk(b.root)
}

func (b *Browser) walk(n node) {
	n.expanded = b.expanded[n.path]
	b.rows = append(b.rows, n)
	if !n.expandable() || !n.expanded {
		return
	}

	switch {
	case n.ref.Type() == flexbuffers.TypeMap:
		m := n.ref.AsMap()
		for i := 0; i < m.Len(); i++ {
			key := string(m.KeyAt(i))
			v, _ := m.Get(key)
			b.walk(node{label: key, path: n.path + "." + key, ref: v, depth: n.depth + 1})
		}
	case n.ref.Type().IsVector():
		vec := n.ref.AsVector()
		for i := 0; i < vec.Len(); i++ {
			b.walk(node{
				label: fmt.Sprintf("[%d]", i),
				path:  fmt.Sprintf("%s[%d]", n.path, i),
				ref:   vec.Index(i),
				depth: n.depth + 1,
			})
		}
	}
}

// Init satisfies tea.Model.
func (b Browser) Init() tea.Cmd { return nil }

// Update satisfies tea.Model.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.height = msg.Height
		return b, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return b, tea.Quit
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
		case "down", "j":
			if b.cursor < len(b.rows)-1 {
				b.cursor++
			}
		case "right", "l", "enter":
			if row := b.rows[b.cursor]; row.expandable() {
				b.expanded[row.path] = true
				b.rebuild()
			}
		case "left", "h":
			if row := b.rows[b.cursor]; b.expanded[row.path] {
				b.expanded[row.path] = false
				b.rebuild()
			}
		}
	}
	return b, nil
}

// View satisfies tea.Model.
func (b Browser) View() string {
	var sb strings.Builder
	for i, n := range b.rows {
		indent := strings.Repeat("  ", n.depth)
		line := renderRow(n)
		if i == b.cursor {
			sb.WriteString(cursorStyle.Render(indent + line))
		} else {
			sb.WriteString(indent + line)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("↑/↓ move · →/enter expand · ← collapse · q quit"))
	return sb.String()
}

func renderRow(n node) string {
	var body strings.Builder
	writeValue(&body, n.ref, "", true)
	label := n.label
	if label != "" {
		label = keyStyle.Render(label) + ": "
	}
	return label + strings.TrimSuffix(body.String(), "\n")
}
