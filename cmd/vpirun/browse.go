package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	vpi "github.com/wippyai/go-vpi"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// browseKinds are the object kinds listed under a scope, in display order.
var browseKinds = []vpi.ObjectType{
	vpi.ObjModule,
	vpi.ObjPort,
	vpi.ObjNet,
	vpi.ObjReg,
	vpi.ObjIntegerVar,
	vpi.ObjRealVar,
	vpi.ObjTimeVar,
}

func newBrowseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the design hierarchy interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("browse needs a terminal")
			}
			ctx := cmd.Context()
			s, err := openSession(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close(ctx)

			source := opts.wasm
			if opts.demo {
				source = "demo"
			}
			_, err = tea.NewProgram(newBrowseModel(s.sim, source), tea.WithAltScreen()).Run()
			return err
		},
	}
}

type entry struct {
	h    vpi.Handle
	name string
	kind vpi.ObjectType
}

type browseState int

const (
	stateList browseState = iota
	stateSearch
)

type browseModel struct {
	err      error
	sim      *vpi.Simulator
	source   string
	detail   string
	scopes   []vpi.Handle
	entries  []entry
	input    textinput.Model
	selected int
	state    browseState
}

func newBrowseModel(sim *vpi.Simulator, source string) *browseModel {
	ti := textinput.New()
	ti.Placeholder = "tb.dut.q"
	ti.Prompt = "name: "
	ti.Width = 40

	m := &browseModel{
		sim:    sim,
		source: source,
		input:  ti,
		scopes: []vpi.Handle{sim.Root()},
	}
	m.load()
	return m
}

func (m *browseModel) scope() vpi.Handle {
	return m.scopes[len(m.scopes)-1]
}

// load lists the objects under the current scope.
func (m *browseModel) load() {
	m.entries = m.entries[:0]
	for _, kind := range browseKinds {
		for h := range m.scope().Iterate(kind).All() {
			m.entries = append(m.entries, entry{h: h, name: nameOf(h), kind: kind})
		}
	}
	m.selected = 0
	m.detail = ""
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.state == stateSearch {
		return m.updateSearch(key)
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.entries)-1 {
			m.selected++
		}

	case "enter", "right", "l":
		if len(m.entries) == 0 {
			break
		}
		e := m.entries[m.selected]
		if e.kind == vpi.ObjModule {
			m.scopes = append(m.scopes, e.h)
			m.load()
			break
		}
		m.detail = describeHandle(e.h)

	case "backspace", "left", "h":
		if len(m.scopes) > 1 {
			m.scopes = m.scopes[:len(m.scopes)-1]
			m.load()
		}

	case "/":
		m.state = stateSearch
		m.err = nil
		m.input.SetValue("")
		m.input.Focus()
	}
	return m, nil
}

func (m *browseModel) updateSearch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.state = stateList
		m.input.Blur()
		return m, nil

	case "enter":
		m.state = stateList
		m.input.Blur()
		m.find(strings.TrimSpace(m.input.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// find looks name up from the top of the design. A module becomes the
// current scope; anything else is described.
func (m *browseModel) find(name string) {
	if name == "" {
		return
	}
	h := m.sim.HandleByName(name, vpi.Handle{})
	if h.IsNull() {
		m.err = fmt.Errorf("no object named %q", name)
		return
	}
	m.err = nil
	if t, ok := h.ObjectType(); ok && t == vpi.ObjModule {
		m.scopes = append(m.scopes[:1], h)
		m.load()
		return
	}
	m.detail = describeHandle(h)
}

func (m *browseModel) breadcrumb() string {
	if len(m.scopes) == 1 {
		return "/"
	}
	if full, ok := m.scope().Str(vpi.PropFullName); ok {
		return full
	}
	return nameOf(m.scope())
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("VPI Browser"))
	b.WriteString(" ")
	b.WriteString(m.source)
	b.WriteString("  ")
	b.WriteString(typeStyle.Render(m.breadcrumb()))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(helpStyle.Render("(empty scope)"))
		b.WriteString("\n")
	}
	for i, e := range m.entries {
		line := fmt.Sprintf("%s %s", nameStyle.Render(e.name), typeStyle.Render(e.kind.String()))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + e.name + " " + e.kind.String()))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.detail != "" {
		b.WriteString("\n")
		b.WriteString(m.detail)
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state == stateSearch {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter find • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • ← up • / find • q quit"))
	}
	return b.String()
}

// describeHandle renders the properties of a non-module object.
func describeHandle(h vpi.Handle) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%-10s %s\n", label+":", value)
	}

	full, ok := h.Str(vpi.PropFullName)
	if !ok {
		full = nameOf(h)
	}
	field("Object", nameStyle.Render(full))
	if t, ok := h.ObjectType(); ok {
		field("Type", typeStyle.Render(t.String()))
	}
	if size, ok := h.Int(vpi.PropSize); ok && size > 0 {
		field("Size", fmt.Sprintf("%d", size))
	}
	if d, ok := h.Direction(); ok {
		field("Direction", d.String())
	}
	if file, ok := h.Str(vpi.PropFile); ok && file != "" {
		line, _ := h.Int(vpi.PropLineNo)
		field("Source", fmt.Sprintf("%s:%d", file, line))
	}
	if v, ok := h.Value(vpi.FormatObjType); ok {
		field("Value", valueStyle.Render(v.String()))
	}
	return b.String()
}

func nameOf(h vpi.Handle) string {
	if name, ok := h.Str(vpi.PropName); ok {
		return name
	}
	return "<unnamed>"
}
