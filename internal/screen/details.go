package screen

import "github.com/kalambet/filmdeck/internal/film"

const (
	noProvenance  = "—"
	excerptLines  = 3
	detailsTitle  = "Details"
	unknownAvatar = "?"
)

// Card is one entry of the films list.
type Card struct {
	ID       string
	Title    string
	Subtitle string
	Initial  string
	Excerpt  []string
}

// NewCard builds a list card; the description is clamped to three lines.
func NewCard(f film.Film, width int) Card {
	return Card{
		ID:       f.ID,
		Title:    f.Title,
		Subtitle: f.Subtitle(),
		Initial:  f.Initial(),
		Excerpt:  f.Excerpt(excerptLines, width),
	}
}

// Details is the presentation of a Selection.
type Details struct {
	Title   string     `json:"title"`
	Initial string     `json:"initial"`
	Heading string     `json:"heading,omitempty"`
	Lines   []string   `json:"lines"`
	From    string     `json:"from"`
	Film    *film.Film `json:"film,omitempty"`
}

// NewDetails renders sel. Without a film it only reports where the user came from.
func NewDetails(sel Selection) Details {
	from := sel.From
	if from == "" {
		from = noProvenance
	}

	if sel.Film == nil {
		return Details{
			Title:   detailsTitle,
			Initial: unknownAvatar,
			Lines:   []string{"You came from: " + from},
			From:    from,
		}
	}

	f := *sel.Film
	lines := []string{
		f.Description,
		"Director: " + f.Director,
		"Producer: " + f.Producer,
	}
	if f.RTScore != "" {
		lines = append(lines, "Score: "+f.RTScore)
	}
	return Details{
		Title:   f.Title,
		Initial: f.Initial(),
		Heading: f.Title + " (" + f.ReleaseDate + ")",
		Lines:   lines,
		From:    from,
		Film:    &f,
	}
}
