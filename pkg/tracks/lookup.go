package tracks

// Span is a half-open range [Start, Stop) into the time-ordered observations.
type Span struct {
	Start, Stop int
}

// Len returns the number of observations covered by s.
func (s Span) Len() int { return s.Stop - s.Start }

// Indices returns Start, Start+1, ..., Stop-1.
func (s Span) Indices() []int {
	idx := make([]int, 0, s.Len())
	for i := s.Start; i < s.Stop; i++ {
		idx = append(idx, i)
	}
	return idx
}

// BuildLookup maps every distinct value of sortedTimes to the span of indices
// holding it. sortedTimes must be non-decreasing. It runs in a single pass.
func BuildLookup(sortedTimes []float64) map[float64]Span {
	lookup := make(map[float64]Span)
	if len(sortedTimes) == 0 {
		return lookup
	}
	start := 0
	for i := 1; i < len(sortedTimes); i++ {
		if sortedTimes[i] != sortedTimes[i-1] {
			lookup[sortedTimes[start]] = Span{Start: start, Stop: i}
			start = i
		}
	}
	lookup[sortedTimes[start]] = Span{Start: start, Stop: len(sortedTimes)}
	return lookup
}
