package film

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// ErrNotFound is returned when no film matches a lookup.
var ErrNotFound = errors.New("film not found")

// Film is one record of the Studio Ghibli films collection.
type Film struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Director    string `json:"director"`
	Producer    string `json:"producer"`
	ReleaseDate string `json:"release_date"`
	RTScore     string `json:"rt_score,omitempty"`
}

// Subtitle is the one-line summary shown under the title in list cards.
func (f Film) Subtitle() string {
	return f.ReleaseDate + " • Dir: " + f.Director
}

// Initial returns the upper-cased first letter of the title, or "?" for an untitled film.
func (f Film) Initial() string {
	r, size := utf8.DecodeRuneInString(strings.TrimSpace(f.Title))
	if size == 0 || r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

// Excerpt wraps the description at width and keeps at most lines lines.
// A truncated excerpt ends with an ellipsis.
func (f Film) Excerpt(lines, width int) []string {
	if lines <= 0 {
		return nil
	}
	wrapped := wrap(f.Description, width)
	if len(wrapped) <= lines {
		return wrapped
	}
	out := append([]string(nil), wrapped[:lines]...)
	last := []rune(out[lines-1])
	if width > 0 && len(last) >= width {
		last = last[:width-1]
	}
	out[lines-1] = strings.TrimRight(string(last), " ") + "…"
	return out
}

func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	var cur strings.Builder
	for _, w := range words {
		switch {
		case cur.Len() == 0:
			cur.WriteString(w)
		case utf8.RuneCountInString(cur.String())+1+utf8.RuneCountInString(w) <= width:
			cur.WriteByte(' ')
			cur.WriteString(w)
		default:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Find resolves query against films by exact ID, then case-insensitive title,
// then the closest title by edit distance. Fuzzy matches further than
// max(2, len(query)/3) edits away are rejected.
func Find(films []Film, query string) (Film, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Film{}, ErrNotFound
	}

	for _, f := range films {
		if f.ID == q {
			return f, nil
		}
	}

	lq := strings.ToLower(q)
	for _, f := range films {
		if strings.ToLower(f.Title) == lq {
			return f, nil
		}
	}

	limit := max(2, utf8.RuneCountInString(lq)/3)
	best, bestDist := -1, limit+1
	for i, f := range films {
		d := levenshtein.ComputeDistance(lq, strings.ToLower(f.Title))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Film{}, ErrNotFound
	}
	return films[best], nil
}
