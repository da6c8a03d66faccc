package theme

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/gdamore/tcell/v2"
)

// Random is the theme ID that asks the registry to pick a theme at random.
const Random = "random"

// ErrUnknownTheme is returned when a theme ID is not in the registry.
var ErrUnknownTheme = errors.New("theme: unknown theme")

// Theme defines a colour scheme loaded from JSON.
type Theme struct {
	ID        string `json:"id"`        // Unique identifier (e.g., "classic")
	Name      string `json:"name"`      // Display name
	Wall      string `json:"wall"`      // Hex colour of walls and corners
	Passage   string `json:"passage"`   // Hex colour of carved cells and passages
	Unvisited string `json:"unvisited"` // Hex colour of cells not yet reached
	Cursor    string `json:"cursor"`    // Hex colour of the traversal cursor
	Opening   string `json:"opening"`   // Hex colour of the entrance and exit
	Text      string `json:"text"`      // Hex colour of the status line
}

// Palette is a Theme resolved into tcell styles.
type Palette struct {
	Wall      tcell.Style
	Passage   tcell.Style
	Unvisited tcell.Style
	Cursor    tcell.Style
	Opening   tcell.Style
	Text      tcell.Style
}

// Palette resolves the theme's colours. Unparseable colours fall back to
// the terminal default.
func (t *Theme) Palette() Palette {
	fill := func(hex string) tcell.Style {
		return tcell.StyleDefault.Background(color(hex))
	}
	return Palette{
		Wall:      fill(t.Wall),
		Passage:   fill(t.Passage),
		Unvisited: fill(t.Unvisited),
		Cursor:    fill(t.Cursor),
		Opening:   fill(t.Opening),
		Text:      tcell.StyleDefault.Foreground(color(t.Text)),
	}
}

func color(hex string) tcell.Color {
	c, err := ParseHexColor(hex)
	if err != nil {
		return tcell.ColorDefault
	}
	return c
}

// ThemesFile represents the structure of themes.json.
type ThemesFile struct {
	Themes []Theme `json:"themes"`
}

// LoadThemes loads theme definitions from the embedded themes.json file.
func LoadThemes() ([]Theme, error) {
	file, err := Load[ThemesFile]("themes.json")
	if err != nil {
		return nil, err
	}
	return file.Themes, nil
}

// Registry holds loaded themes.
type Registry struct {
	themes []Theme
}

// NewRegistry creates a registry from loaded theme definitions.
func NewRegistry(themes []Theme) *Registry {
	return &Registry{themes: themes}
}

// LoadRegistry loads and creates a registry from the embedded themes.json.
func LoadRegistry() (*Registry, error) {
	themes, err := LoadThemes()
	if err != nil {
		return nil, err
	}
	if len(themes) == 0 {
		return nil, errors.New("no themes loaded from themes.json")
	}
	return NewRegistry(themes), nil
}

// GetByID returns the theme with the given ID, or nil if not found.
func (r *Registry) GetByID(id string) *Theme {
	for i := range r.themes {
		if r.themes[i].ID == id {
			return &r.themes[i]
		}
	}
	return nil
}

// Resolve returns the theme named by id. The special ID Random picks one
// uniformly using rng.
func (r *Registry) Resolve(id string, rng *rand.Rand) (*Theme, error) {
	if id == Random && len(r.themes) > 0 {
		return &r.themes[rng.Intn(len(r.themes))], nil
	}
	if t := r.GetByID(id); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, id)
}

// Count returns the number of themes in the registry.
func (r *Registry) Count() int {
	return len(r.themes)
}
