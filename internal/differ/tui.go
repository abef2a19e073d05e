// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tfctl/datdiff/internal/index"
	"github.com/tfctl/datdiff/internal/store"
)

var (
	// ErrPickerNeedsTwo is returned when there are not enough builds to pick from.
	ErrPickerNeedsTwo = errors.New("at least two builds are needed to compare")
	// ErrPickerAborted is returned when the user quits without picking two builds.
	ErrPickerAborted = errors.New("build selection aborted")
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Accept key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	previewStyle  = lipgloss.NewStyle().Italic(true)
)

// SelectBuilds lets the user pick two of builds, which are expected newest
// first as index.Builds returns them. While two builds are marked the picker
// previews their comparison, restarting it whenever the marks change. The
// result is ordered older, newer. Quitting returns ErrPickerAborted.
func SelectBuilds(ctx context.Context, builds []index.Build, g store.Getter) ([]index.Build, error) {
	return selectBuilds(ctx, builds, g, tea.WithOutput(os.Stderr))
}

func selectBuilds(ctx context.Context, builds []index.Build, g store.Getter, opts ...tea.ProgramOption) ([]index.Build, error) {
	if len(builds) < 2 { //nolint:mnd
		return nil, ErrPickerNeedsTwo
	}

	m := newPicker(ctx, builds, g)
	defer m.session.Close()

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("build picker failed: %w", err)
	}

	fm, ok := final.(picker)
	if !ok || !fm.accepted {
		return nil, ErrPickerAborted
	}
	picked := fm.result()
	if picked == nil {
		return nil, ErrPickerAborted
	}
	return picked, nil
}

type previewMsg struct {
	gen uint64
	res *Result
	err error
}

type picker struct {
	ctx      context.Context
	builds   []index.Build
	cursor   int
	selected []int
	accepted bool
	session  *Session
	preview  string
	help     help.Model
}

func newPicker(ctx context.Context, builds []index.Build, g store.Getter) picker {
	return picker{
		ctx:     ctx,
		builds:  builds,
		session: NewSession(g),
		help:    help.New(),
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case previewMsg:
		if !m.session.Current(msg.gen) {
			return m, nil
		}
		m.preview = describe(msg.res, msg.err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.selected = nil
			m.accepted = false
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.builds)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			return m.toggle()
		case key.Matches(msg, keys.Accept):
			if len(m.selected) == 2 { //nolint:mnd
				m.accepted = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m picker) toggle() (tea.Model, tea.Cmd) {
	if i := m.position(m.cursor); i >= 0 {
		m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
	} else if len(m.selected) < 2 { //nolint:mnd
		m.selected = append(m.selected, m.cursor)
	} else {
		return m, nil
	}

	// Any change of marks supersedes the running preview.
	gen, cctx := m.session.Begin(m.ctx)
	if len(m.selected) != 2 { //nolint:mnd
		m.preview = ""
		return m, nil
	}

	pair := m.result()
	getter := m.session.getter
	m.preview = "comparing..."
	return m, func() tea.Msg {
		res, err := Compare(cctx, getter, pair[0].ID, pair[1].ID)
		return previewMsg{gen: gen, res: res, err: err}
	}
}

func (m picker) position(cursor int) int {
	for i, s := range m.selected {
		if s == cursor {
			return i
		}
	}
	return -1
}

// result returns the marked builds ordered older, newer.
func (m picker) result() []index.Build {
	if len(m.selected) != 2 { //nolint:mnd
		return nil
	}
	pos := append([]int(nil), m.selected...)
	// Builds are listed newest first, so the higher position is older.
	sort.Sort(sort.Reverse(sort.IntSlice(pos)))
	return []index.Build{m.builds[pos[0]], m.builds[pos[1]]}
}

func describe(res *Result, err error) string {
	var ue *UnobtainableError
	switch {
	case errors.As(err, &ue):
		return UnobtainableMessage
	case err != nil:
		return ""
	case res.Empty():
		return IdenticalMessage
	}
	s := Summarize(res.Diffs)
	return fmt.Sprintf("%d added, %d removed, %d changed", s.Added, s.Removed, s.Changed)
}

func (m picker) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select two builds:"))
	b.WriteString("\n\n")

	for i, build := range m.builds {
		cursor := " "
		if m.cursor == i {
			cursor = cursorStyle.Render(">")
		}
		mark := " "
		line := build.Label()
		if m.position(i) >= 0 {
			mark = "x"
			line = selectedStyle.Render(line)
		}
		fmt.Fprintf(&b, "%s [%s] %s\n", cursor, mark, line)
	}

	if m.preview != "" {
		b.WriteString("\n")
		b.WriteString(previewStyle.Render(m.preview))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Up, keys.Down, keys.Toggle, keys.Accept, keys.Quit}))
	b.WriteString("\n")
	return b.String()
}
