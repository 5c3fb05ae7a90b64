package termview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pthm/hxtag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverColor(t *testing.T) {
	r := DefaultResolver()

	assert.Equal(t, lipgloss.Color("#e11900"), r.Color(hxtag.State{Kind: hxtag.KindRed}))
	assert.Equal(t, lipgloss.Color("#123456"), r.Color(hxtag.State{Kind: hxtag.KindCustom, Color: "#123456"}))
	assert.Equal(t, r.Palette[hxtag.KindPrimary], r.Color(hxtag.State{Kind: hxtag.KindCustom}))
}

func TestResolverStyle(t *testing.T) {
	r := DefaultResolver()

	solid := r.Style(hxtag.SlotRoot, hxtag.State{Kind: hxtag.KindBlue, Variant: hxtag.VariantSolid})
	assert.Equal(t, lipgloss.Color("#276ef1"), solid.GetBackground())

	focused := r.Style(hxtag.SlotRoot, hxtag.State{IsFocusVisible: true})
	assert.True(t, focused.GetBold())
	assert.True(t, focused.GetUnderline())

	disabled := r.Style(hxtag.SlotRoot, hxtag.State{Disabled: true})
	assert.True(t, disabled.GetFaint())
	assert.False(t, disabled.GetUnderline())

	outlined := r.Style(hxtag.SlotRoot, hxtag.State{Variant: hxtag.VariantOutlined})
	assert.Equal(t, lipgloss.RoundedBorder(), outlined.GetBorderStyle())
}

func TestView(t *testing.T) {
	root, err := hxtag.New(hxtag.Props{Children: "golang"}).Build()
	require.NoError(t, err)
	out := View(root, DefaultResolver())
	assert.Contains(t, out, "golang")
	assert.Contains(t, out, closeGlyph)

	root, err = hxtag.New(hxtag.Props{Children: hxtag.Fragment{"v", 2}, Closeable: hxtag.Bool(false)}).Build()
	require.NoError(t, err)
	out = View(root, DefaultResolver())
	assert.Contains(t, out, "v 2")
	assert.NotContains(t, out, closeGlyph)

	assert.Equal(t, "", View(nil, DefaultResolver()))
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

type gallery struct {
	calls []string
	tags  []*hxtag.Tag
}

func newGallery() *gallery {
	g := &gallery{}
	g.tags = []*hxtag.Tag{
		hxtag.New(hxtag.Props{
			Children: "clickable",
			OnClick:  func(e *hxtag.Event) { g.calls = append(g.calls, "click") },
			OnActionClick: func(e *hxtag.Event) {
				g.calls = append(g.calls, "dismiss")
				e.Flash(hxtag.FlashInfo, "removed clickable")
				e.Remove()
			},
		}),
		hxtag.New(hxtag.Props{Children: "disabled", Disabled: true}),
		hxtag.New(hxtag.Props{Children: "static", Closeable: hxtag.Bool(false)}),
		hxtag.New(hxtag.Props{
			Children:      "closeable",
			OnActionClick: func(e *hxtag.Event) { e.Trigger("tag:dismissed"); e.Remove() },
		}),
	}
	return g
}

func TestModelTabSkipsNonInteractive(t *testing.T) {
	g := newGallery()
	m := NewModel(g.tags, DefaultResolver())
	require.Nil(t, m.Focused())

	m = update(t, m, key(tea.KeyTab))
	require.Same(t, g.tags[0], m.Focused())
	assert.True(t, g.tags[0].FocusVisible())

	m = update(t, m, key(tea.KeyTab))
	require.Same(t, g.tags[3], m.Focused())
	assert.False(t, g.tags[0].FocusVisible(), "blur clears the previous focus ring")
	assert.True(t, g.tags[3].FocusVisible())

	m = update(t, m, key(tea.KeyTab))
	require.Same(t, g.tags[0], m.Focused(), "focus wraps around")

	m = update(t, m, key(tea.KeyShiftTab))
	require.Same(t, g.tags[3], m.Focused())
}

func TestModelKeyboardActivation(t *testing.T) {
	g := newGallery()
	m := NewModel(g.tags, DefaultResolver())

	m = update(t, m, key(tea.KeyEnter))
	assert.Empty(t, g.calls, "keys without focus are dropped")

	m = update(t, m, key(tea.KeyTab))
	m = update(t, m, key(tea.KeyEnter))
	assert.Equal(t, []string{"click"}, g.calls)

	m = update(t, m, key(tea.KeyBackspace))
	assert.Equal(t, []string{"click", "dismiss"}, g.calls)
	assert.Equal(t, 3, m.Len())
	assert.Contains(t, m.Status(), "[info] removed clickable")
	assert.Nil(t, m.Focused(), "the successor is not focusable")

	m = update(t, m, key(tea.KeyTab))
	m = update(t, m, key(tea.KeyDelete))
	assert.Equal(t, 2, m.Len())
	assert.Contains(t, m.Status(), "event: tag:dismissed")
}

func TestModelClick(t *testing.T) {
	g := newGallery()
	m := NewModel(g.tags, DefaultResolver())

	m.Click(0, hxtag.SlotText)
	assert.Equal(t, []string{"click"}, g.calls)
	require.Same(t, g.tags[0], m.Focused())
	assert.False(t, g.tags[0].FocusVisible(), "pointer focus shows no ring")

	m.Click(1, hxtag.SlotText)
	require.Same(t, g.tags[0], m.Focused(), "disabled tags do not take focus")

	m.Click(0, hxtag.SlotAction)
	assert.Equal(t, []string{"click", "dismiss"}, g.calls, "dismissing does not activate")
	assert.Equal(t, 3, m.Len())
}

func TestModelView(t *testing.T) {
	g := newGallery()
	m := NewModel(g.tags, DefaultResolver())

	out := m.View()
	for _, label := range []string{"clickable", "disabled", "static", "closeable", "esc: quit"} {
		assert.Contains(t, out, label)
	}

	m = update(t, m, key(tea.KeyEsc))
	assert.Equal(t, "", m.View())
}

func TestModelEmpty(t *testing.T) {
	m := NewModel(nil, DefaultResolver())
	m = update(t, m, key(tea.KeyTab))
	assert.Nil(t, m.Focused())
	assert.True(t, strings.HasPrefix(m.View(), "no tags left"))
}
