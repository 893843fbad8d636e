package tracks

import (
	"slices"
	"testing"
)

// TestBuildConnex verifies one false entry per track, at each track's end
func TestBuildConnex(t *testing.T) {
	ids := []float64{0, 0, 0, 1, 2, 2}
	want := []bool{true, true, false, false, true, false}
	if got := BuildConnex(ids); !slices.Equal(got, want) {
		t.Errorf("Expected connex %v, got %v", want, got)
	}
	if got := BuildConnex(nil); len(got) != 0 {
		t.Errorf("Expected empty connex, got %v", got)
	}
	if got := longestTrack(ids); got != 3 {
		t.Errorf("Expected longest track 3, got %d", got)
	}
}

// TestSegments verifies the visible window around the current time
func TestSegments(t *testing.T) {
	p := quietParams()
	p.TailLength = 2
	p.HeadLength = 0
	layer, err := NewLayer(timeSeries(10), p)
	if err != nil {
		t.Fatalf("Failed to create layer: %v", err)
	}

	want := []Segment{{From: 3, To: 4}, {From: 4, To: 5}}
	if got := layer.Segments(5); !slices.Equal(got, want) {
		t.Errorf("Expected segments %v, got %v", want, got)
	}

	layer.SetHeadLength(1)
	want = append(want, Segment{From: 5, To: 6})
	if got := layer.Segments(5); !slices.Equal(got, want) {
		t.Errorf("Expected segments %v with head, got %v", want, got)
	}
}

// TestSegmentsDoNotCrossTracks verifies no segment joins two tracks
func TestSegmentsDoNotCrossTracks(t *testing.T) {
	layer := lineageLayer(t)
	ids := layer.Features()[ColTrackID]
	for _, s := range layer.Segments(5) {
		if ids[s.From] != ids[s.To] {
			t.Errorf("Expected segment %v within one track, got ids %v and %v", s, ids[s.From], ids[s.To])
		}
	}
}

// TestTrackLabels verifies labels and positions at a time
func TestTrackLabels(t *testing.T) {
	layer := lineageLayer(t)
	labels, pos := layer.TrackLabels(5)
	if !slices.Equal(labels, []string{"ID:1", "ID:2"}) {
		t.Errorf("Expected labels [ID:1 ID:2], got %v", labels)
	}
	if len(pos) != 2 || !slices.Equal(pos[1], []float64{5, 10, 10}) {
		t.Errorf("Expected position [5 10 10] for track 2, got %v", pos)
	}
	if labels, _ := layer.TrackLabels(100); len(labels) != 0 {
		t.Errorf("Expected no labels at time 100, got %v", labels)
	}
}
