package tracks

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// vertex is one observation at a fixed time, keyed by its spatial coordinates.
type vertex struct {
	coords []float64
	row    int
}

// Compare implements the kdtree.Comparable interface
func (v vertex) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return v.coords[d] - c.(vertex).coords[d]
}

// Dims returns the number of spatial dimensions
func (v vertex) Dims() int { return len(v.coords) }

// Distance returns the squared Euclidean distance between two vertices
func (v vertex) Distance(c kdtree.Comparable) float64 {
	q := c.(vertex)
	var sum float64
	for i, x := range v.coords {
		d := x - q.coords[i]
		sum += d * d
	}
	return sum
}

type vertices []vertex

func (p vertices) Index(i int) kdtree.Comparable         { return p[i] }
func (p vertices) Len() int                              { return len(p) }
func (p vertices) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p vertices) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane{vertices: p, Dim: d}, kdtree.MedianOfRandoms(plane{vertices: p, Dim: d}, 100))
}

// plane implements sort.Interface and kdtree.SortSlicer for vertices
type plane struct {
	vertices
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.vertices[i].coords[p.Dim] < p.vertices[j].coords[p.Dim]
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{vertices: p.vertices[start:end], Dim: p.Dim}
}

func (p plane) Swap(i, j int) {
	p.vertices[i], p.vertices[j] = p.vertices[j], p.vertices[i]
}

// ValueAt returns the id of the track nearest to coords among the
// observations at exactly time coords[0]. coords is (t, [z,] y, x).
func (l *Layer) ValueAt(coords []float64) (int, bool) {
	if len(coords) != l.NDim() {
		return 0, false
	}
	rows := l.PointsAt(coords[0])
	if len(rows) == 0 {
		return 0, false
	}
	pts := make(vertices, len(rows))
	for i, r := range rows {
		pts[i] = vertex{coords: l.table.data.RawRowView(r)[2:], row: r}
	}
	tree := kdtree.New(pts, false)
	nearest, _ := tree.Nearest(vertex{coords: coords[1:]})
	if nearest == nil {
		return 0, false
	}
	return int(l.table.data.At(nearest.(vertex).row, 0)), true
}
