package tracks

// BuildConnex reports, for rows sorted by track id and then time, whether row
// i connects forward to row i+1 of the same track. The last row of every track
// is false, so the number of false entries equals the number of tracks.
func BuildConnex(trackIDs []float64) []bool {
	connex := make([]bool, len(trackIDs))
	for i := 0; i+1 < len(trackIDs); i++ {
		connex[i] = trackIDs[i] == trackIDs[i+1]
	}
	return connex
}

// longestTrack returns the number of rows in the longest run of equal ids.
func longestTrack(trackIDs []float64) int {
	longest, run := 0, 0
	for i := range trackIDs {
		if i > 0 && trackIDs[i] == trackIDs[i-1] {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

func clampLength(n, maxLength int) int {
	return min(max(n, 0), maxLength)
}

// Segment is a line between two consecutive observations of one track,
// given as row indices into Data().
type Segment struct {
	From, To int
}
