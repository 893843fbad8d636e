// Package colormap provides the named colormaps used to colour tracks by a
// property, interpolated between control points with go-colorful.
package colormap

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Default is the colormap used when none is configured.
const Default = "turbo"

// Colormap maps values in [0, 1] to colours.
type Colormap struct {
	Name   string
	stops  []colorful.Color
	blendf func(a, b colorful.Color, t float64) colorful.Color
}

// New builds a colormap from evenly spaced control colours.
func New(name string, stops []colorful.Color) (*Colormap, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("colormap %q needs at least two control colours", name)
	}
	return &Colormap{Name: name, stops: slices.Clone(stops), blendf: blendRGB}, nil
}

// FromHex builds a colormap from hex colour strings such as "#440154".
func FromHex(name string, hex ...string) (*Colormap, error) {
	stops := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("colormap %q: %w", name, err)
		}
		stops[i] = c
	}
	return New(name, stops)
}

func blendRGB(a, b colorful.Color, t float64) colorful.Color { return a.BlendRgb(b, t) }

func blendHcl(a, b colorful.Color, t float64) colorful.Color { return a.BlendHcl(b, t).Clamped() }

// At returns the colour for v. Values outside [0, 1] are clamped and NaN maps
// to the first colour.
func (c *Colormap) At(v float64) colorful.Color {
	if math.IsNaN(v) || v <= 0 {
		return c.stops[0]
	}
	if v >= 1 {
		return c.stops[len(c.stops)-1]
	}
	pos := v * float64(len(c.stops)-1)
	i := int(pos)
	return c.blendf(c.stops[i], c.stops[i+1], pos-float64(i))
}

// Map returns one RGBA row per value. It returns nil for no values.
func (c *Colormap) Map(values []float64) *mat.Dense {
	if len(values) == 0 {
		return nil
	}
	out := mat.NewDense(len(values), 4, nil)
	for i, v := range values {
		col := c.At(v)
		out.SetRow(i, []float64{col.R, col.G, col.B, 1})
	}
	return out
}

// Normalize rescales values to [0, 1] as (v - min) / max(1e-10, max - min).
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	lo, hi := floats.Min(values), floats.Max(values)
	span := math.Max(1e-10, hi-lo)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}

var registry = map[string]*Colormap{}

func mustRegister(c *Colormap, err error) {
	if err != nil {
		panic(err)
	}
	registry[c.Name] = c
}

func init() {
	mustRegister(FromHex("turbo",
		"#30123b", "#4662d7", "#36aaf9", "#1ae4b6", "#72fe5e",
		"#c8ef34", "#faba39", "#f66b19", "#ca2a04", "#7a0403"))
	mustRegister(FromHex("viridis",
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"))
	mustRegister(FromHex("magma",
		"#000004", "#1c1044", "#4f127b", "#812581", "#b5367a",
		"#e55064", "#fb8761", "#fec287", "#fcfdbf"))
	mustRegister(FromHex("gray", "#000000", "#ffffff"))

	hsv := make([]colorful.Color, 7)
	for i := range hsv {
		hsv[i] = colorful.Hsv(float64(i)*60, 1, 1)
	}
	mustRegister(New("hsv", hsv))

	cividis, err := FromHex("cividis", "#00204d", "#414d6b", "#7c7b78", "#bcaf6f", "#ffea46")
	if err == nil {
		cividis.blendf = blendHcl
	}
	mustRegister(cividis, err)
}

// Get returns the named colormap.
func Get(name string) (*Colormap, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q (available: %v)", name, Names())
	}
	return c, nil
}

// Names lists the registered colormaps in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
