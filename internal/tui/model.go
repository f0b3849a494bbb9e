// Package tui is the terminal rendition of the films screen: a list with a
// refresh key and a details pane.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kalambet/filmdeck/internal/film"
	"github.com/kalambet/filmdeck/internal/listfetch"
	"github.com/kalambet/filmdeck/internal/screen"
)

const defaultWidth = 72

type fetchDoneMsg struct {
	trigger string
	err     error
}

// router receives navigation callbacks from the screen. It is shared by
// pointer because bubbletea copies the Model on every update.
type router struct {
	details *screen.Details
}

// Model is the bubbletea model for the films browser.
type Model struct {
	ctx     context.Context
	films   *screen.FilmsScreen
	nav     *router
	spinner spinner.Model
	cursor  int
	width   int
}

// New builds the browser around ctrl. Fetches run with ctx.
func New(ctx context.Context, ctrl *listfetch.Controller[film.Film]) Model {
	r := &router{}
	films := screen.NewFilms(ctrl, screen.Navigator{
		ShowDetails: func(sel screen.Selection) {
			d := screen.NewDetails(sel)
			r.details = &d
		},
		Back: func() { r.details = nil },
	})

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))
	return Model{
		ctx:     ctx,
		films:   films,
		nav:     r,
		spinner: sp,
		width:   defaultWidth,
	}
}

// Run starts the browser and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctrl *listfetch.Controller[film.Film]) error {
	p := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.activateCmd())
}

func (m Model) activateCmd() tea.Cmd {
	films, ctx := m.films, m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{trigger: "load", err: films.Activate(ctx)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	films, ctx := m.films, m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{trigger: "refresh", err: films.Refresh(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case fetchDoneMsg:
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.nav.details != nil {
			return m.updateDetails(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.films.Deactivate()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.films.State().Items)-1 {
			m.cursor++
		}
	case "r":
		if m.films.State().Refreshing {
			return m, nil
		}
		return m, m.refreshCmd()
	case "enter":
		if screen.BodyFor(m.films.State()) != screen.BodyList {
			return m, nil
		}
		m.films.Select(m.cursor)
	}
	return m, nil
}

func (m Model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.films.Deactivate()
		return m, tea.Quit
	case "esc", "backspace":
		m.films.Back()
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.films.State().Items)
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m Model) View() string {
	if m.nav.details != nil {
		return m.viewDetails(*m.nav.details)
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Studio Ghibli Films"))
	b.WriteString("\n")

	st := m.films.State()
	switch screen.BodyFor(st) {
	case screen.BodyLoading:
		fmt.Fprintf(&b, "%s Loading films…\n", m.spinner.View())
	case screen.BodyError:
		b.WriteString(errorStyle.Render(screen.ErrorText(st.Err)))
		b.WriteString("\n")
	default:
		if st.Refreshing {
			fmt.Fprintf(&b, "%s refreshing…\n", m.spinner.View())
		}
		if len(st.Items) == 0 {
			b.WriteString(subtitleStyle.Render("No films."))
			b.WriteString("\n")
		}
		for i, f := range st.Items {
			card := screen.NewCard(f, m.width-8)
			marker := "  "
			if i == m.cursor {
				marker = markerStyle.Render("› ")
			}
			fmt.Fprintf(&b, "%s%s %s\n", marker, avatarStyle.Render(card.Initial), titleStyle.Render(card.Title))
			fmt.Fprintf(&b, "      %s\n", subtitleStyle.Render(card.Subtitle))
			for _, line := range card.Excerpt {
				b.WriteString(excerptStyle.Render(line))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(helpStyle.Render("j/k move • enter details • r refresh • q quit"))
	return b.String()
}

func (m Model) viewDetails(d screen.Details) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Details"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n\n", avatarStyle.Render(d.Initial), titleStyle.Render(d.Title))
	if d.Heading != "" {
		b.WriteString(titleStyle.Render(d.Heading))
		b.WriteString("\n")
	}
	for _, line := range d.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("esc back • q quit"))
	return b.String()
}
