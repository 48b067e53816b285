package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	vpi "github.com/wippyai/go-vpi"
	"github.com/wippyai/go-vpi/vpitest"
)

func newDemoBrowser(t *testing.T) *browseModel {
	t.Helper()
	d := vpitest.NewDemo()
	sim := vpi.New(d)
	d.Attach(sim.Dispatch)
	return newBrowseModel(sim, "demo")
}

func press(m *browseModel, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func names(m *browseModel) []string {
	var out []string
	for _, e := range m.entries {
		out = append(out, e.name)
	}
	return out
}

func TestBrowse_Navigate(t *testing.T) {
	m := newDemoBrowser(t)
	if diff := cmp.Diff([]string{"tb"}, names(m)); diff != "" {
		t.Fatalf("root entries (-want +got):\n%s", diff)
	}

	press(m, "enter")
	if diff := cmp.Diff([]string{"dut", "count", "clk", "rst", "period"}, names(m)); diff != "" {
		t.Fatalf("tb entries (-want +got):\n%s", diff)
	}
	if got := m.breadcrumb(); got != "tb" {
		t.Errorf("expected breadcrumb tb, got %q", got)
	}

	press(m, "down", "enter")
	for _, want := range []string{"tb.count", "vpiNet", "Size:", "8"} {
		if !strings.Contains(m.detail, want) {
			t.Errorf("detail missing %q:\n%s", want, m.detail)
		}
	}

	press(m, "backspace")
	if diff := cmp.Diff([]string{"tb"}, names(m)); diff != "" {
		t.Errorf("entries after going up (-want +got):\n%s", diff)
	}
	if m.detail != "" {
		t.Error("expected detail cleared after changing scope")
	}

	// Going up from the top is a no-op.
	press(m, "backspace")
	if got := m.breadcrumb(); got != "/" {
		t.Errorf("expected breadcrumb /, got %q", got)
	}
}

func TestBrowse_Search(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantScope string
		wantEnts  []string
		wantErr   bool
		wantInfo  string
	}{
		{
			name:      "module",
			query:     "tb.dut",
			wantScope: "tb.dut",
			wantEnts:  []string{"clk", "rst", "q", "state"},
		},
		{
			name:      "port",
			query:     "tb.dut.q",
			wantScope: "/",
			wantInfo:  "output",
		},
		{
			name:      "missing",
			query:     "tb.nope",
			wantScope: "/",
			wantErr:   true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newDemoBrowser(t)
			press(m, "/")
			if m.state != stateSearch {
				t.Fatal("expected search state after /")
			}
			press(m, tc.query, "enter")

			if m.state != stateList {
				t.Error("expected list state after search")
			}
			if got := m.breadcrumb(); got != tc.wantScope {
				t.Errorf("expected scope %q, got %q", tc.wantScope, got)
			}
			if tc.wantEnts != nil {
				if diff := cmp.Diff(tc.wantEnts, names(m)); diff != "" {
					t.Errorf("entries (-want +got):\n%s", diff)
				}
			}
			if (m.err != nil) != tc.wantErr {
				t.Errorf("expected error=%v, got %v", tc.wantErr, m.err)
			}
			if tc.wantInfo != "" && !strings.Contains(m.detail, tc.wantInfo) {
				t.Errorf("detail missing %q:\n%s", tc.wantInfo, m.detail)
			}
		})
	}
}

func TestBrowse_SearchCancel(t *testing.T) {
	m := newDemoBrowser(t)
	press(m, "/", "tb", "esc")
	if m.state != stateList {
		t.Fatal("expected list state after esc")
	}
	if got := m.breadcrumb(); got != "/" {
		t.Errorf("expected scope unchanged, got %q", got)
	}
	// q typed into the search box must not quit.
	press(m, "/", "q")
	if m.state != stateSearch {
		t.Error("q left search state")
	}
	if got := m.input.Value(); got != "q" {
		t.Errorf("expected input %q, got %q", "q", got)
	}
}

func TestBrowse_Quit(t *testing.T) {
	m := newDemoBrowser(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit")
	}
}

func TestBrowse_View(t *testing.T) {
	m := newDemoBrowser(t)
	view := m.View()
	for _, want := range []string{"VPI Browser", "demo", "tb", "vpiModule", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	press(m, "/")
	if !strings.Contains(m.View(), "esc cancel") {
		t.Error("search view missing help")
	}
}
