package tracks

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Column names recognised by FromColumns. Time may be given as "t" or "time".
const (
	ColTrackID = "track_id"
	ColTime    = "t"
)

// table holds the sorted observation matrix and the properties aligned to it.
type table struct {
	data *mat.Dense

	// order maps sorted row i to the row of the caller's original input, so
	// order[i] is where properties for row i are read from.
	order []int

	// properties in sorted row order, always containing track_id.
	properties map[string][]float64

	// unique track ids present, ascending.
	ids []int
}

// FromRows builds an observation matrix from rows of the form
// (track_id, t, [z,] y, x).
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, invalid("data", "track data must contain at least one observation")
	}
	cols := len(rows[0])
	buf := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, invalid("data", "row %d has %d columns, expected %d", i, len(r), cols)
		}
		buf = append(buf, r...)
	}
	if cols == 0 {
		return nil, invalid("data", "track vertices should be 4 or 5-dimensional")
	}
	return mat.NewDense(len(rows), cols, buf), nil
}

// FromColumns builds an observation matrix from named columns. It needs
// track_id, t (or time), and either y,x or z,y,x.
func FromColumns(cols map[string][]float64) (*mat.Dense, error) {
	timeCol := ColTime
	if _, ok := cols[timeCol]; !ok {
		timeCol = "time"
	}
	names := []string{ColTrackID, timeCol}
	if _, ok := cols["z"]; ok {
		names = append(names, "z")
	}
	names = append(names, "y", "x")

	n := -1
	for _, name := range names {
		c, ok := cols[name]
		if !ok {
			return nil, invalid("data", "missing column %q", name)
		}
		if n >= 0 && len(c) != n {
			return nil, invalid("data", "column %q has %d values, expected %d", name, len(c), n)
		}
		n = len(c)
	}
	if n == 0 {
		return nil, invalid("data", "track data must contain at least one observation")
	}

	m := mat.NewDense(n, len(names), nil)
	for j, name := range names {
		m.SetCol(j, cols[name])
	}
	return m, nil
}

// validateData checks the shape and the id/time columns of m.
func validateData(m mat.Matrix) error {
	r, c := m.Dims()
	if r == 0 {
		return invalid("data", "track data must contain at least one observation")
	}
	if c != 4 && c != 5 {
		return invalid("data", "track vertices should be 4 or 5-dimensional, got %d columns", c)
	}
	for i := 0; i < r; i++ {
		id := m.At(i, 0)
		if math.IsNaN(id) || math.IsInf(id, 0) || math.Floor(id) != id {
			return invalid("data", "track_id must be an integer, got %v in row %d", id, i)
		}
		if id < 0 {
			return invalid("data", "track_id must be non-negative, got %v in row %d", id, i)
		}
		t := m.At(i, 1)
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return invalid("data", "time must be finite, got %v in row %d", t, i)
		}
	}
	return nil
}

// lexOrder returns the permutation that sorts rows of m by track_id and then
// by time. Both passes are stable so ties keep their input order.
func lexOrder(m mat.Matrix) []int {
	r, _ := m.Dims()
	times := mat.Col(nil, 1, m)
	byTime := make([]int, r)
	floats.ArgsortStable(times, byTime)

	ids := make([]float64, r)
	for i, src := range byTime {
		ids[i] = m.At(src, 0)
	}
	byID := make([]int, r)
	floats.ArgsortStable(ids, byID)

	order := make([]int, r)
	for i, k := range byID {
		order[i] = byTime[k]
	}
	return order
}

// permuteRows returns a new matrix with dst row i taken from src row order[i].
func permuteRows(src mat.Matrix, order []int) *mat.Dense {
	_, c := src.Dims()
	dst := mat.NewDense(len(order), c, nil)
	row := make([]float64, c)
	for i, k := range order {
		mat.Row(row, k, src)
		dst.SetRow(i, row)
	}
	return dst
}

func permute(values []float64, order []int) []float64 {
	out := make([]float64, len(order))
	for i, k := range order {
		out[i] = values[k]
	}
	return out
}

// newTable validates m and stores a sorted copy of it.
func newTable(m mat.Matrix) (*table, error) {
	if err := validateData(m); err != nil {
		return nil, err
	}
	order := lexOrder(m)
	t := &table{
		data:  permuteRows(m, order),
		order: order,
	}
	t.ids = uniqueIDs(t.data)
	t.properties = map[string][]float64{ColTrackID: t.trackIDColumn()}
	return t, nil
}

func (t *table) len() int {
	r, _ := t.data.Dims()
	return r
}

func (t *table) trackIDColumn() []float64 {
	return mat.Col(nil, 0, t.data)
}

func uniqueIDs(m mat.Matrix) []int {
	r, _ := m.Dims()
	var ids []int
	for i := 0; i < r; i++ {
		id := int(m.At(i, 0))
		if len(ids) == 0 || ids[len(ids)-1] != id {
			ids = append(ids, id)
		}
	}
	// rows are sorted by id, but keep this correct for unsorted input too
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (t *table) hasID(id int) bool {
	_, ok := slices.BinarySearch(t.ids, id)
	return ok
}

// alignProperties validates props against the table size and returns them in
// sorted row order. The track_id column is always taken from the data.
func (t *table) alignProperties(props map[string][]float64) (map[string][]float64, error) {
	n := t.len()
	aligned := make(map[string][]float64, len(props)+1)
	for name, values := range props {
		if len(values) != n {
			return nil, invalid("properties", "property %q has %d values, expected %d", name, len(values), n)
		}
		aligned[name] = permute(values, t.order)
	}
	// track_id always mirrors the data column
	aligned[ColTrackID] = t.trackIDColumn()
	return aligned, nil
}

// resort re-sorts the live matrix in place after external mutation and
// carries properties along with the rows.
func (t *table) resort() error {
	if err := validateData(t.data); err != nil {
		return err
	}
	perm := lexOrder(t.data)
	t.data.Copy(permuteRows(t.data, perm))

	order := make([]int, len(perm))
	for i, k := range perm {
		order[i] = t.order[k]
	}
	t.order = order

	for name, values := range t.properties {
		if name == ColTrackID {
			continue
		}
		t.properties[name] = permute(values, perm)
	}
	t.properties[ColTrackID] = t.trackIDColumn()
	t.ids = uniqueIDs(t.data)
	return nil
}

func copyColumns(cols map[string][]float64) map[string][]float64 {
	out := make(map[string][]float64, len(cols))
	for k, v := range cols {
		out[k] = slices.Clone(v)
	}
	return out
}
