package tracks

import (
	"maps"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// lineage stores the child -> parents mapping exactly as given, and the same
// relation as a directed gonum graph with parent -> child edges.
type lineage struct {
	parents map[int][]int
	g       *simple.DirectedGraph
}

// newLineage validates parents against the present track ids. Every key and
// every parent must be present, otherwise the offending key is reported.
func newLineage(parents map[int][]int, t *table) (*lineage, error) {
	for _, child := range slices.Sorted(maps.Keys(parents)) {
		if !t.hasID(child) {
			return nil, invalid("graph", "graph node %d not found", child)
		}
		for _, p := range parents[child] {
			if !t.hasID(p) {
				return nil, invalid("graph", "graph node %d not found", child)
			}
		}
	}

	g := simple.NewDirectedGraph()
	for _, id := range t.ids {
		g.AddNode(simple.Node(id))
	}
	stored := make(map[int][]int, len(parents))
	for child, ps := range parents {
		stored[child] = slices.Clone(ps)
		for _, p := range ps {
			if p == child {
				// simple graphs have no self loops; the mapping keeps it
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(p), simple.Node(child)))
		}
	}
	return &lineage{parents: stored, g: g}, nil
}

func emptyLineage(t *table) *lineage {
	l, _ := newLineage(nil, t)
	return l
}

func (l *lineage) clone() map[int][]int {
	out := make(map[int][]int, len(l.parents))
	for k, v := range l.parents {
		out[k] = slices.Clone(v)
	}
	return out
}

// descendants walks parent -> child edges breadth first from id.
func (l *lineage) descendants(id int) []int {
	if l.g.Node(int64(id)) == nil {
		return nil
	}
	var out []int
	var bf traverse.BreadthFirst
	bf.Walk(l.g, simple.Node(id), func(n graph.Node, depth int) bool {
		if depth > 0 {
			out = append(out, int(n.ID()))
		}
		return false
	})
	slices.Sort(out)
	return out
}

// ancestors walks child -> parent edges from id.
func (l *lineage) ancestors(id int) []int {
	if l.g.Node(int64(id)) == nil {
		return nil
	}
	seen := map[int64]bool{int64(id): true}
	queue := []int64{int64(id)}
	var out []int
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		it := l.g.To(cur)
		for it.Next() {
			p := it.Node().ID()
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, int(p))
			queue = append(queue, p)
		}
	}
	slices.Sort(out)
	return out
}

// roots returns the present track ids that have no parent.
func (l *lineage) roots() []int {
	var out []int
	nodes := l.g.Nodes()
	for nodes.Next() {
		n := nodes.Node()
		if l.g.To(n.ID()).Len() == 0 {
			out = append(out, int(n.ID()))
		}
	}
	slices.Sort(out)
	return out
}
