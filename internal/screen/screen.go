package screen

import (
	"context"
	"fmt"

	"github.com/kalambet/filmdeck/internal/film"
	"github.com/kalambet/filmdeck/internal/listfetch"
)

// FromFilms is the provenance tag set when a film is picked from the list.
const FromFilms = "Films"

// Selection is what the list hands to the details presentation.
type Selection struct {
	Film *film.Film
	From string
}

// Navigator is the capability a screen gets to move between presentations.
// Nil callbacks are ignored.
type Navigator struct {
	ShowDetails func(Selection)
	Back        func()
}

// Body says which of the three mutually exclusive bodies the list screen shows.
type Body int

const (
	BodyList Body = iota
	BodyLoading
	BodyError
)

func (b Body) String() string {
	switch b {
	case BodyLoading:
		return "loading"
	case BodyError:
		return "error"
	default:
		return "list"
	}
}

// FilmsScreen binds a films controller to a Navigator.
type FilmsScreen struct {
	ctrl *listfetch.Controller[film.Film]
	nav  Navigator
}

// NewFilms creates the films list screen.
func NewFilms(ctrl *listfetch.Controller[film.Film], nav Navigator) *FilmsScreen {
	return &FilmsScreen{ctrl: ctrl, nav: nav}
}

// Activate runs the one-time load when the screen becomes visible.
func (s *FilmsScreen) Activate(ctx context.Context) error {
	return s.ctrl.Activate(ctx)
}

// Deactivate discards the screen state.
func (s *FilmsScreen) Deactivate() {
	s.ctrl.Deactivate()
}

func (s *FilmsScreen) Load(ctx context.Context) error {
	return s.ctrl.Load(ctx)
}

// Refresh is the pull-to-refresh trigger.
func (s *FilmsScreen) Refresh(ctx context.Context) error {
	return s.ctrl.Refresh(ctx)
}

// ID identifies the screen instance in logs.
func (s *FilmsScreen) ID() string {
	return s.ctrl.ID()
}

// State returns the controller snapshot.
func (s *FilmsScreen) State() listfetch.State[film.Film] {
	return s.ctrl.State()
}

// Body picks what to render: the spinner wins over the error, and the
// error replaces the list.
func (s *FilmsScreen) Body() Body {
	return BodyFor(s.ctrl.State())
}

// BodyFor applies the rendering rule to an existing snapshot.
func BodyFor(st listfetch.State[film.Film]) Body {
	switch {
	case st.Loading:
		return BodyLoading
	case st.Err != "":
		return BodyError
	default:
		return BodyList
	}
}

// Cards renders the current items as list cards.
func (s *FilmsScreen) Cards(width int) []Card {
	st := s.ctrl.State()
	cards := make([]Card, len(st.Items))
	for i, f := range st.Items {
		cards[i] = NewCard(f, width)
	}
	return cards
}

// Select hands item i of the current snapshot to the details presentation.
func (s *FilmsScreen) Select(i int) (Selection, error) {
	items := s.ctrl.State().Items
	if i < 0 || i >= len(items) {
		return Selection{}, fmt.Errorf("select %d: index out of range [0,%d)", i, len(items))
	}
	f := items[i]
	sel := Selection{Film: &f, From: FromFilms}
	if s.nav.ShowDetails != nil {
		s.nav.ShowDetails(sel)
	}
	return sel, nil
}

// Back asks the navigator to leave the current presentation.
func (s *FilmsScreen) Back() {
	if s.nav.Back != nil {
		s.nav.Back()
	}
}

// ErrorText is the inline message shown in place of the list.
func ErrorText(msg string) string {
	return "Error loading data: " + msg
}
