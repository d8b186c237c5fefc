package tree

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatrails/go-datatrails-flexbuffers/flexbuffers"
)

func buildBrowserDoc(t *testing.T) flexbuffers.Reference {
	t.Helper()
	b := flexbuffers.New(64)
	start := b.StartMap()
	b.AddStringKey("name", "Ada")
	vecStart := b.StartVectorKey("tags")
	b.AddString("math")
	b.AddString("computing")
	b.EndVector(vecStart, false, false)
	b.EndMap(start)
	buf := b.Finish()

	ref, err := flexbuffers.GetRoot(buf)
	require.NoError(t, err)
	return ref
}

func TestBrowserStartsWithRootExpanded(t *testing.T) {
	browser := NewBrowser(buildBrowserDoc(t))
	assert.Len(t, browser.rows, 3) // root, name, tags (tags collapsed by default)
}

func TestBrowserExpandsVector(t *testing.T) {
	browser := NewBrowser(buildBrowserDoc(t))
	// cursor starts at root; move to the "tags" row (index 2).
	browser.cursor = 2
	model, _ := browser.Update(tea.KeyMsg{Type: tea.KeyRight})
	browser = model.(Browser)

	assert.Len(t, browser.rows, 5) // root, name, tags, [0], [1]
	assert.Equal(t, "[0]", browser.rows[3].label)
	assert.Equal(t, "[1]", browser.rows[4].label)
}

func TestBrowserCollapsesAfterExpand(t *testing.T) {
	browser := NewBrowser(buildBrowserDoc(t))
	browser.cursor = 2
	model, _ := browser.Update(tea.KeyMsg{Type: tea.KeyRight})
	browser = model.(Browser)
	require.Len(t, browser.rows, 5)

	model, _ = browser.Update(tea.KeyMsg{Type: tea.KeyLeft})
	browser = model.(Browser)
	assert.Len(t, browser.rows, 3)
}

func TestBrowserCursorMovesWithinBounds(t *testing.T) {
	browser := NewBrowser(buildBrowserDoc(t))
	model, _ := browser.Update(tea.KeyMsg{Type: tea.KeyUp})
	browser = model.(Browser)
	assert.Equal(t, 0, browser.cursor)

	for i := 0; i < 10; i++ {
		model, _ = browser.Update(tea.KeyMsg{Type: tea.KeyDown})
		browser = model.(Browser)
	}
	assert.Equal(t, len(browser.rows)-1, browser.cursor)
}

func TestBrowserViewContainsLabels(t *testing.T) {
	browser := NewBrowser(buildBrowserDoc(t))
	out := browser.View()
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "tags")
}

func TestBrowserQuitReturnsQuitCmd(t *testing.T) {
	browser := NewBrowser(buildBrowserDoc(t))
	_, cmd := browser.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}
