package tracks

import (
	"maps"
	"slices"

	"gonum.org/v1/gonum/mat"

	"ndtracks/pkg/colormap"
)

// ColorBy returns the property currently driving track colours.
func (l *Layer) ColorBy() string { return l.colorBy }

// ColorByOptions lists the keys SetColorBy accepts.
func (l *Layer) ColorByOptions() []string {
	return slices.Sorted(maps.Keys(l.table.properties))
}

// SetColorBy selects the property used for colouring. It must be track_id or
// a property key.
func (l *Layer) SetColorBy(name string) error {
	if _, ok := l.table.properties[name]; !ok {
		return invalid("color_by", "%q is not a valid property key", name)
	}
	l.colorBy = name
	l.colorsStale = true
	l.emit(EventColorBy)
	return nil
}

// Colormap returns the name of the layer colormap.
func (l *Layer) Colormap() string { return l.cmap.Name }

// SetColormap selects one of the registered colormaps by name.
func (l *Layer) SetColormap(name string) error {
	cmap, err := colormap.Get(name)
	if err != nil {
		return invalid("colormap", "%v", err)
	}
	l.cmap = cmap
	l.colorsStale = true
	l.emit(EventColors)
	return nil
}

// SetPropertyColormap assigns a dedicated colormap to one property. Values of
// that property are mapped unscaled, so they should already lie in [0, 1].
// A nil colormap removes the entry.
func (l *Layer) SetPropertyColormap(property string, cmap *colormap.Colormap) {
	if l.colormapsDict == nil {
		l.colormapsDict = make(map[string]*colormap.Colormap)
	}
	if cmap == nil {
		delete(l.colormapsDict, property)
	} else {
		l.colormapsDict[property] = cmap
	}
	if property == l.colorBy {
		l.colorsStale = true
		l.emit(EventColors)
	}
}

// TrackColors returns one RGBA row per observation in Data() order.
func (l *Layer) TrackColors() *mat.Dense {
	if l.colorsStale || l.colors == nil {
		l.colors = l.resolveColors()
		l.colorsStale = false
	}
	return l.colors
}

// SetTrackColors stores a precomputed n x 4 colour matrix. It is returned
// as is until properties, color_by, the colormap or the data change.
func (l *Layer) SetTrackColors(colors mat.Matrix) error {
	r, c := colors.Dims()
	if r != l.Len() || c != 4 {
		return invalid("track_colors", "expected %dx4 colours, got %dx%d", l.Len(), r, c)
	}
	l.colors = mat.DenseCopyOf(colors)
	l.colorsStale = false
	l.emit(EventColors)
	return nil
}

func (l *Layer) resolveColors() *mat.Dense {
	values := l.table.properties[l.colorBy]
	if cmap, ok := l.colormapsDict[l.colorBy]; ok && cmap != nil {
		return cmap.Map(values)
	}
	return l.cmap.Map(colormap.Normalize(values))
}
