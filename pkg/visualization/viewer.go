package visualization

import (
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"ndtracks/pkg/tracks"
)

// Options controls how frames are drawn
type Options struct {
	Width, Height int
	PointRadius   float64
	Background    string // hex colour
	ShowGraph     bool
	ShowLabels    bool
}

// DefaultOptions returns the options used by NewViewer when given nil
func DefaultOptions() *Options {
	return &Options{
		Width:       800,
		Height:      600,
		PointRadius: 3,
		Background:  "#000000",
		ShowGraph:   true,
	}
}

// Viewer draws a tracks layer as seen at a single time value: tails and
// heads as coloured segments, lineage edges, and the points at that time.
// The last two data columns (y, x) are projected onto the image.
type Viewer struct {
	layer *tracks.Layer
	opts  Options
	bg    colorful.Color

	// data bounds of the projected axes
	minX, maxX float64
	minY, maxY float64
	margin     float64
}

// NewViewer creates a new frame viewer for layer
func NewViewer(layer *tracks.Layer, opts *Options) (*Viewer, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("frame size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	bg, err := colorful.Hex(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background colour: %w", err)
	}

	v := &Viewer{layer: layer, opts: *opts, bg: bg, margin: 10 + opts.PointRadius}
	v.fitBounds()
	return v, nil
}

// fitBounds records the extent of the y and x columns over all observations
func (v *Viewer) fitBounds() {
	data := v.layer.Data()
	r, c := data.Dims()
	v.minX, v.minY = math.Inf(1), math.Inf(1)
	v.maxX, v.maxY = math.Inf(-1), math.Inf(-1)
	for i := 0; i < r; i++ {
		y, x := data.At(i, c-2), data.At(i, c-1)
		v.minX, v.maxX = math.Min(v.minX, x), math.Max(v.maxX, x)
		v.minY, v.maxY = math.Min(v.minY, y), math.Max(v.maxY, y)
	}
}

// Project maps data row i to pixel coordinates
func (v *Viewer) Project(row int) (float64, float64) {
	data := v.layer.Data()
	_, c := data.Dims()
	return v.project(data.At(row, c-2), data.At(row, c-1))
}

func (v *Viewer) project(y, x float64) (float64, float64) {
	w := float64(v.opts.Width) - 2*v.margin
	h := float64(v.opts.Height) - 2*v.margin
	px := v.margin + scale(x, v.minX, v.maxX)*w
	py := v.margin + scale(y, v.minY, v.maxY)*h
	return px, py
}

// scale maps value into [0, 1]; a degenerate range maps to the centre
func scale(value, lo, hi float64) float64 {
	if hi-lo < 1e-12 {
		return 0.5
	}
	return (value - lo) / (hi - lo)
}

// RenderFrame draws the layer as seen at time t
func (v *Viewer) RenderFrame(t float64) (image.Image, error) {
	times := v.layer.Times()
	lo := times[0] - float64(v.layer.HeadLength())
	hi := times[len(times)-1] + float64(v.layer.TailLength())
	if math.IsNaN(t) || t < lo || t > hi {
		return nil, fmt.Errorf("time %v outside data range [%v, %v]", t, lo, hi)
	}

	dc := gg.NewContext(v.opts.Width, v.opts.Height)
	dc.SetRGB(v.bg.R, v.bg.G, v.bg.B)
	dc.Clear()

	colors := v.layer.TrackColors()
	data := v.layer.Data()
	window := float64(v.layer.TailLength() + v.layer.HeadLength() + 1)

	dc.SetLineWidth(v.layer.TailWidth())
	for _, seg := range v.layer.Segments(t) {
		// segments fade with their distance from the current time
		age := math.Abs(t - data.At(seg.To, 1))
		alpha := colors.At(seg.From, 3) * (1 - age/window)
		x1, y1 := v.Project(seg.From)
		x2, y2 := v.Project(seg.To)
		dc.SetRGBA(colors.At(seg.From, 0), colors.At(seg.From, 1), colors.At(seg.From, 2), alpha)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	if v.opts.ShowGraph {
		tail, head := float64(v.layer.TailLength()), float64(v.layer.HeadLength())
		dc.SetRGBA(1, 1, 1, 0.6)
		for _, e := range v.layer.GraphEdges() {
			from, to := data.At(e.From, 1), data.At(e.To, 1)
			if from < t-tail || to > t+head {
				continue
			}
			x1, y1 := v.Project(e.From)
			x2, y2 := v.Project(e.To)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
	}

	for _, row := range v.layer.PointsAt(t) {
		x, y := v.Project(row)
		dc.SetRGBA(colors.At(row, 0), colors.At(row, 1), colors.At(row, 2), colors.At(row, 3))
		dc.DrawCircle(x, y, v.opts.PointRadius)
		dc.Fill()
		if v.opts.ShowLabels {
			dc.DrawString(fmt.Sprintf("ID:%d", int(data.At(row, 0))), x+v.opts.PointRadius+2, y)
		}
	}

	return dc.Image(), nil
}

// SaveFrame saves a rendered frame as PNG, or JPEG for .jpg/.jpeg names
func (v *Viewer) SaveFrame(img image.Image, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		file, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer file.Close()
		return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	default:
		return gg.SavePNG(filename, img)
	}
}

// SaveFrameSequence renders and saves one frame per distinct time value
func (v *Viewer) SaveFrameSequence(outputDir string) (int, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, err
	}

	times := v.layer.Times()
	for i, t := range times {
		img, err := v.RenderFrame(t)
		if err != nil {
			return i, err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("frame_%04d.png", i))
		if err := v.SaveFrame(img, filename); err != nil {
			return i, err
		}
	}

	return len(times), nil
}
