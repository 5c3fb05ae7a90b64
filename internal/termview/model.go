package termview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/pthm/hxtag"
)

// keyNames maps terminal key names onto the key values the tag controller
// understands.
var keyNames = map[string]string{
	"enter":     hxtag.KeyEnter,
	"backspace": hxtag.KeyBackspace,
	"delete":    hxtag.KeyDelete,
}

type entry struct {
	id  int
	tag *hxtag.Tag
}

// Model is a Bubbletea model showing a row of tags.
//
// Tab and Shift+Tab move keyboard focus between interactive tags; every
// other key is dispatched as a keydown to the focused tag. Left clicks are
// routed to the tag root or to its dismiss control. Tags whose handlers call
// Event.Remove leave the row.
type Model struct {
	entries  []entry
	focus    int
	resolver Resolver
	zones    *zone.Manager
	prefix   string
	status   []string
	quitting bool
}

// NewModel constructs a model for tags, in display order.
func NewModel(tags []*hxtag.Tag, r Resolver) Model {
	m := Model{
		focus:    -1,
		resolver: r,
		zones:    zone.New(),
	}
	m.prefix = m.zones.NewPrefix()
	for i, t := range tags {
		m.entries = append(m.entries, entry{id: i, tag: t})
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Len returns the number of tags still shown.
func (m Model) Len() int {
	return len(m.entries)
}

// Focused returns the focused tag, or nil.
func (m Model) Focused() *hxtag.Tag {
	if m.focus < 0 || m.focus >= len(m.entries) {
		return nil
	}
	return m.entries[m.focus].tag
}

// Status returns the messages produced by the last dispatch: flashes and
// broadcast events.
func (m Model) Status() []string {
	return m.status
}

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.moveFocus(1)
			return m, nil
		case "shift+tab":
			m.moveFocus(-1)
			return m, nil
		}
		if m.focus < 0 {
			return m, nil
		}
		key, ok := keyNames[msg.String()]
		if !ok {
			key = msg.String()
		}
		m.status = nil
		m.dispatch(m.focus, hxtag.SlotRoot, hxtag.EventKeyDown, key, true)
		return m, nil
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for i, e := range m.entries {
			if z := m.zones.Get(m.zoneID(e.id, hxtag.SlotAction)); z != nil && z.InBounds(msg) {
				m.Click(i, hxtag.SlotAction)
				return m, nil
			}
			if z := m.zones.Get(m.zoneID(e.id, hxtag.SlotRoot)); z != nil && z.InBounds(msg) {
				m.Click(i, hxtag.SlotText)
				return m, nil
			}
		}
	}
	return m, nil
}

// Click simulates a left click on slot of the i-th tag: pointerdown, focus
// (when the tag is focusable) and click.
func (m *Model) Click(i int, slot hxtag.Slot) {
	if i < 0 || i >= len(m.entries) {
		return
	}
	m.status = nil
	id := m.entries[i].id
	if !m.dispatch(i, slot, hxtag.EventPointerDown, "", false) {
		return
	}
	i = m.indexOf(id)
	if i >= 0 && m.focusable(i) && m.focus != i {
		m.setFocus(i, false)
	}
	if i = m.indexOf(id); i >= 0 {
		m.dispatch(i, slot, hxtag.EventClick, "", false)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	parts := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		root, err := e.tag.Build()
		if err != nil {
			parts = append(parts, fmt.Sprintf("[%v]", err))
			continue
		}
		id := e.id
		parts = append(parts, render(root, m.resolver, func(s hxtag.Slot, out string) string {
			if s != hxtag.SlotRoot && s != hxtag.SlotAction {
				return out
			}
			return m.zones.Mark(m.zoneID(id, s), out)
		}))
	}

	var b strings.Builder
	if len(parts) == 0 {
		b.WriteString("no tags left")
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, spaced(parts)...))
	}
	b.WriteString("\n\n")
	for _, s := range m.status {
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("tab/shift+tab: focus • enter: activate • backspace/delete: dismiss • esc: quit"))
	return m.zones.Scan(b.String())
}

func spaced(parts []string) []string {
	out := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, p)
	}
	return out
}

func (m Model) zoneID(id int, s hxtag.Slot) string {
	return fmt.Sprintf("%s%d-%s", m.prefix, id, s)
}

func (m Model) indexOf(id int) int {
	for i, e := range m.entries {
		if e.id == id {
			return i
		}
	}
	return -1
}

// focusable reports whether the i-th tag takes part in keyboard navigation.
func (m Model) focusable(i int) bool {
	return m.entries[i].tag.State().Interactive()
}

// moveFocus moves keyboard focus by step, wrapping around and skipping tags
// that are not interactive.
func (m *Model) moveFocus(step int) {
	n := len(m.entries)
	if n == 0 {
		return
	}
	start := m.focus
	if start < 0 {
		start = -1
		if step < 0 {
			start = n
		}
	}
	for k := 1; k <= n; k++ {
		i := ((start+step*k)%n + n) % n
		if m.focusable(i) {
			if i != m.focus {
				m.setFocus(i, true)
			}
			return
		}
	}
}

// setFocus blurs the focused tag, if any, and focuses the i-th one.
func (m *Model) setFocus(i int, keyboard bool) {
	if prev := m.focus; prev >= 0 && prev < len(m.entries) {
		m.focus = -1
		m.dispatch(prev, hxtag.SlotRoot, hxtag.EventBlur, "", keyboard)
	}
	m.focus = i
	m.dispatch(i, hxtag.SlotRoot, hxtag.EventFocus, "", keyboard)
}

// dispatch sends an event to slot of the i-th tag and applies its side
// effects. It reports whether the tag is still shown.
func (m *Model) dispatch(i int, slot hxtag.Slot, typ hxtag.EventType, key string, keyboard bool) bool {
	t := m.entries[i].tag
	root, err := t.Build()
	if err != nil {
		m.status = append(m.status, err.Error())
		return true
	}
	target := root.Find(slot)
	if target == nil {
		target = root
	}

	e := hxtag.NewEvent(typ, target)
	e.Key = key
	e.FromKeyboard = keyboard
	if _, err := t.Dispatch(e); err != nil {
		m.status = append(m.status, err.Error())
		return true
	}

	resp := e.Response()
	for _, f := range resp.Flashes() {
		m.status = append(m.status, fmt.Sprintf("[%s] %s", f.Level, f.Message))
	}
	for _, name := range resp.Triggers() {
		m.status = append(m.status, "event: "+name)
	}
	if resp.Removed() {
		m.remove(i)
		return false
	}
	return true
}

// remove drops the i-th tag; focus moves to its successor, if any.
func (m *Model) remove(i int) {
	m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
	switch {
	case m.focus == i:
		m.focus = -1
		if len(m.entries) > 0 {
			next := i
			if next >= len(m.entries) {
				next = len(m.entries) - 1
			}
			if m.focusable(next) {
				m.setFocus(next, true)
			}
		}
	case m.focus > i:
		m.focus--
	}
}
