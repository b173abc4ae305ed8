package mines

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
)

type GameParams struct {
	Height    int `schema:"height,required"`
	Width     int `schema:"width,required"`
	MineCount int `schema:"mine_count,required"`
}

func (p GameParams) Unpack() (h int, w int, mc int) {
	return p.Height, p.Width, p.MineCount
}

func (p GameParams) Validate() error {
	return validateParams(p.Unpack())
}

func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d/%d", p.Height, p.Width, p.MineCount)
}

func (p GameParams) NewField(r *rand.Rand) (*MineField, error) {
	return New(p.Height, p.Width, p.MineCount, r)
}

// ParseParams decodes custom parameters written as a query string, e.g.
// "height=16&width=16&mine_count=40".
func ParseParams(query string) (GameParams, error) {
	src, err := url.ParseQuery(query)
	if err != nil {
		return GameParams{}, fmt.Errorf("malformed parameters %q: %w", query, err)
	}
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	var p GameParams
	if err := dec.Decode(&p, src); err != nil {
		return GameParams{}, err
	}
	if err := p.Validate(); err != nil {
		return GameParams{}, err
	}
	return p, nil
}

type Preset struct {
	Name string
	GameParams
}

const CustomPreset = "custom"

var (
	Beginner     = Preset{"beginner", GameParams{Height: 9, Width: 9, MineCount: 10}}
	Intermediate = Preset{"intermediate", GameParams{Height: 16, Width: 16, MineCount: 40}}
	Expert       = Preset{"expert", GameParams{Height: 16, Width: 30, MineCount: 99}}

	Presets = []Preset{Beginner, Intermediate, Expert}
)

func LookupPreset(name string) (Preset, bool) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// ResolvePreset accepts either a preset name or custom query-string
// parameters.
func ResolvePreset(s string) (Preset, error) {
	if p, ok := LookupPreset(s); ok {
		return p, nil
	}
	if !strings.Contains(s, "=") {
		return Preset{}, fmt.Errorf("unknown preset %q", s)
	}
	params, err := ParseParams(s)
	if err != nil {
		return Preset{}, err
	}
	return Preset{Name: CustomPreset, GameParams: params}, nil
}
