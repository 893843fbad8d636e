package tracks

import (
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"ndtracks/pkg/colormap"
)

// Default display parameters.
const (
	DefaultTailLength = 30
	DefaultHeadLength = 0
	DefaultTailWidth  = 2.0
)

// Params holds the optional construction parameters of a Layer. Zero values
// of Name, ColorBy, Colormap, TailWidth and Logger fall back to the defaults;
// zero lengths are kept.
type Params struct {
	Name string

	// Properties are aligned with the rows of the data as given, before sorting.
	Properties map[string][]float64

	// Graph maps a child track id to its parent track ids.
	Graph map[int][]int

	// ColorBy names the property driving track colours.
	ColorBy string

	// TailLength and HeadLength are clipped to the longest track length.
	TailLength int
	HeadLength int
	TailWidth  float64

	// Colormap is used for properties without an entry in ColormapsDict.
	Colormap      string
	ColormapsDict map[string]*colormap.Colormap

	Logger *log.Logger
}

// DefaultParams returns the parameters used when NewLayer gets nil.
func DefaultParams() *Params {
	return &Params{
		Name:       "Tracks",
		ColorBy:    ColTrackID,
		TailLength: DefaultTailLength,
		HeadLength: DefaultHeadLength,
		TailWidth:  DefaultTailWidth,
		Colormap:   colormap.Default,
	}
}

// Layer is the tracks data model consumed by a view layer.
type Layer struct {
	name   string
	logger *log.Logger

	table   *table
	lineage *lineage

	colorBy       string
	cmap          *colormap.Colormap
	colormapsDict map[string]*colormap.Colormap

	// requested lengths; reads clip them to the longest track
	tailLength int
	headLength int
	tailWidth  float64

	// derived, rebuilt by ensureIndex/ensureColors when stale
	index       *temporalIndex
	colors      *mat.Dense
	colorsStale bool

	subs      []subscription
	nextSubID int
}

// temporalIndex is everything derived from the sorted table.
type temporalIndex struct {
	timeOrder   []int     // rows of the table sorted stably by time
	rowTimes    []float64 // time of each table row
	sortedTimes []float64 // rowTimes in timeOrder
	lookup      map[float64]Span
	connex      []bool
	maxLength   int
}

// NewLayer validates data and params and returns a ready layer. Data is copied;
// rows are accepted in any order.
func NewLayer(data mat.Matrix, params *Params) (*Layer, error) {
	if params == nil {
		params = DefaultParams()
	}
	t, err := newTable(data)
	if err != nil {
		return nil, err
	}
	if params.Properties != nil {
		props, err := t.alignProperties(params.Properties)
		if err != nil {
			return nil, err
		}
		t.properties = props
	}
	lin, err := newLineage(params.Graph, t)
	if err != nil {
		return nil, err
	}

	cmapName := params.Colormap
	if cmapName == "" {
		cmapName = colormap.Default
	}
	cmap, err := colormap.Get(cmapName)
	if err != nil {
		return nil, invalid("colormap", "%v", err)
	}

	colorBy := params.ColorBy
	if colorBy == "" {
		colorBy = ColTrackID
	}
	if _, ok := t.properties[colorBy]; !ok {
		return nil, invalid("color_by", "%q is not a valid property key", colorBy)
	}

	logger := params.Logger
	if logger == nil {
		logger = log.Default()
	}
	name := params.Name
	if name == "" {
		name = "Tracks"
	}
	tailWidth := params.TailWidth
	if tailWidth <= 0 {
		tailWidth = DefaultTailWidth
	}

	l := &Layer{
		name:          name,
		logger:        logger,
		table:         t,
		lineage:       lin,
		colorBy:       colorBy,
		cmap:          cmap,
		colormapsDict: maps.Clone(params.ColormapsDict),
		tailLength:    max(params.TailLength, 0),
		headLength:    max(params.HeadLength, 0),
		tailWidth:     tailWidth,
		colorsStale:   true,
	}
	return l, nil
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// NDim is the number of data dimensions including time (3 or 4).
func (l *Layer) NDim() int {
	_, c := l.table.data.Dims()
	return c - 1
}

// Len is the number of observations.
func (l *Layer) Len() int { return l.table.len() }

// Data returns the live observation matrix sorted by track id and time.
// Callers may change it in place and then call Refresh, or use Update.
func (l *Layer) Data() *mat.Dense { return l.table.data }

// SetData replaces all observations. Properties and graph are reset.
func (l *Layer) SetData(data mat.Matrix) error {
	t, err := newTable(data)
	if err != nil {
		return err
	}
	l.table = t
	l.lineage = emptyLineage(t)
	l.invalidate()
	fellBack := l.checkColorBy()
	l.logger.Debug("track data replaced", "layer", l.name, "rows", t.len(), "tracks", len(t.ids))
	l.emit(EventData, EventProperties, EventGraph)
	if fellBack {
		l.emit(EventColorBy)
	}
	return nil
}

// Refresh re-sorts the live matrix and rebuilds every derived structure after
// the matrix was changed in place. Properties follow their rows. If the new
// data or the graph no longer validates, nothing but the matrix has changed.
func (l *Layer) Refresh() error {
	if err := validateData(l.table.data); err != nil {
		return err
	}
	ids := uniqueIDs(l.table.data)
	probe := &table{ids: ids}
	if _, err := newLineage(l.lineage.parents, probe); err != nil {
		return err
	}
	if err := l.table.resort(); err != nil {
		return err
	}
	lin, _ := newLineage(l.lineage.parents, l.table)
	l.lineage = lin
	l.invalidate()
	l.emit(EventData)
	return nil
}

// Update runs fn on the live matrix and refreshes once afterwards. When fn or
// the refresh fails the matrix is restored and the error returned.
func (l *Layer) Update(fn func(data *mat.Dense) error) error {
	snapshot := mat.DenseCopyOf(l.table.data)
	if err := fn(l.table.data); err != nil {
		l.table.data.Copy(snapshot)
		return err
	}
	if err := l.Refresh(); err != nil {
		l.table.data.Copy(snapshot)
		return fmt.Errorf("update rejected: %w", err)
	}
	return nil
}

// Properties returns a copy of the per-observation properties in sorted row
// order. It always contains track_id.
func (l *Layer) Properties() map[string][]float64 {
	return copyColumns(l.table.properties)
}

// Features is the feature table view of the properties; Features()["track_id"]
// is the sorted track id column.
func (l *Layer) Features() map[string][]float64 { return l.Properties() }

// SetProperties replaces the properties. Values are aligned with the data rows
// as originally given. If the current color_by key disappears, colouring falls
// back to track_id with a warning.
func (l *Layer) SetProperties(props map[string][]float64) error {
	aligned, err := l.table.alignProperties(props)
	if err != nil {
		return err
	}
	l.table.properties = aligned
	l.colorsStale = true
	fellBack := l.checkColorBy()
	l.emit(EventProperties)
	if fellBack {
		l.emit(EventColorBy)
	}
	return nil
}

// checkColorBy falls back to track_id when the colour key no longer exists.
func (l *Layer) checkColorBy() bool {
	if _, ok := l.table.properties[l.colorBy]; ok {
		return false
	}
	prev := l.colorBy
	l.colorBy = ColTrackID
	l.colorsStale = true
	l.warn(fmt.Sprintf("Previous color_by key %q not present in properties. Falling back to track_id", prev))
	return true
}

// Graph returns a copy of the child -> parents mapping.
func (l *Layer) Graph() map[int][]int { return l.lineage.clone() }

// SetGraph replaces the lineage graph. Every key and parent id must be a
// track id present in the data.
func (l *Layer) SetGraph(graph map[int][]int) error {
	lin, err := newLineage(graph, l.table)
	if err != nil {
		return err
	}
	l.lineage = lin
	l.emit(EventGraph)
	return nil
}

// TrackIDs returns the distinct track ids, ascending.
func (l *Layer) TrackIDs() []int { return slices.Clone(l.table.ids) }

// Ancestors returns every track id reachable through parent links from id.
func (l *Layer) Ancestors(id int) []int { return l.lineage.ancestors(id) }

// Descendants returns every track id reachable through child links from id.
func (l *Layer) Descendants(id int) []int { return l.lineage.descendants(id) }

// Roots returns the track ids without a parent.
func (l *Layer) Roots() []int { return l.lineage.roots() }

// GraphEdges returns one segment per (parent, child) pair, from the last row
// of the parent track to the first row of the child track.
func (l *Layer) GraphEdges() []Segment {
	first, last := l.trackBounds()
	var edges []Segment
	for _, child := range slices.Sorted(maps.Keys(l.lineage.parents)) {
		for _, p := range l.lineage.parents[child] {
			edges = append(edges, Segment{From: last[p], To: first[child]})
		}
	}
	return edges
}

func (l *Layer) trackBounds() (first, last map[int]int) {
	first, last = make(map[int]int), make(map[int]int)
	ids := l.table.trackIDColumn()
	for i, v := range ids {
		id := int(v)
		if _, ok := first[id]; !ok {
			first[id] = i
		}
		last[id] = i
	}
	return first, last
}

func (l *Layer) invalidate() {
	l.index = nil
	l.colors = nil
	l.colorsStale = true
}

func (l *Layer) ensureIndex() *temporalIndex {
	if l.index != nil {
		return l.index
	}
	ids := l.table.trackIDColumn()
	rowTimes := mat.Col(nil, 1, l.table.data)
	sorted := slices.Clone(rowTimes)
	order := make([]int, len(sorted))
	floats.ArgsortStable(sorted, order)
	l.index = &temporalIndex{
		timeOrder:   order,
		rowTimes:    rowTimes,
		sortedTimes: sorted,
		lookup:      BuildLookup(sorted),
		connex:      BuildConnex(ids),
		maxLength:   longestTrack(ids),
	}
	l.logger.Debug("rebuilt temporal index", "layer", l.name, "times", len(l.index.lookup))
	return l.index
}

// Connex returns the per-row connectivity flags.
func (l *Layer) Connex() []bool { return slices.Clone(l.ensureIndex().connex) }

// MaxLength is the number of observations in the longest track.
func (l *Layer) MaxLength() int { return l.ensureIndex().maxLength }

// Times returns the distinct time values, ascending.
func (l *Layer) Times() []float64 {
	return slices.Compact(slices.Clone(l.ensureIndex().sortedTimes))
}

// Lookup returns the span of time-ordered observations at time t.
func (l *Layer) Lookup(t float64) (Span, bool) {
	s, ok := l.ensureIndex().lookup[t]
	return s, ok
}

// PointsLookup returns a copy of the whole temporal index.
func (l *Layer) PointsLookup() map[float64]Span {
	return maps.Clone(l.ensureIndex().lookup)
}

// PointsAt returns the rows of Data() observed at time t.
func (l *Layer) PointsAt(t float64) []int {
	ix := l.ensureIndex()
	s, ok := ix.lookup[t]
	if !ok {
		return nil
	}
	return slices.Clone(ix.timeOrder[s.Start:s.Stop])
}

// TailLength returns the tail window length, clipped to [0, MaxLength()].
func (l *Layer) TailLength() int { return clampLength(l.tailLength, l.MaxLength()) }

// HeadLength returns the head window length, clipped to [0, MaxLength()].
func (l *Layer) HeadLength() int { return clampLength(l.headLength, l.MaxLength()) }

// SetTailLength sets the tail window. The request is kept, so a longer
// track added later lets the window grow back up to n.
func (l *Layer) SetTailLength(n int) {
	l.tailLength = max(n, 0)
	l.emit(EventLength)
}

// SetHeadLength sets the head window, kept like SetTailLength.
func (l *Layer) SetHeadLength(n int) {
	l.headLength = max(n, 0)
	l.emit(EventLength)
}

// TailWidth is the rendered line width of tracks.
func (l *Layer) TailWidth() float64 { return l.tailWidth }

// Segments returns the track segments visible at time t: consecutive rows of
// one track with both ends inside [t - tail, t + head].
func (l *Layer) Segments(t float64) []Segment {
	ix := l.ensureIndex()
	lo, hi := t-float64(l.TailLength()), t+float64(l.HeadLength())
	var segs []Segment
	for i, c := range ix.connex {
		if !c {
			continue
		}
		a, b := ix.rowTimes[i], ix.rowTimes[i+1]
		if a >= lo && a <= hi && b >= lo && b <= hi {
			segs = append(segs, Segment{From: i, To: i + 1})
		}
	}
	return segs
}

// TrackLabels returns an "ID:<id>" label and the position (time and spatial
// coordinates) of every observation at time t.
func (l *Layer) TrackLabels(t float64) ([]string, [][]float64) {
	rows := l.PointsAt(t)
	labels := make([]string, len(rows))
	pos := make([][]float64, len(rows))
	for i, r := range rows {
		row := l.table.data.RawRowView(r)
		labels[i] = fmt.Sprintf("ID:%d", int(row[0]))
		pos[i] = slices.Clone(row[1:])
	}
	return labels, pos
}
