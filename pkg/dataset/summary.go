package dataset

import (
	"gonum.org/v1/gonum/stat"

	"ndtracks/internal/models"
	"ndtracks/pkg/tracks"
)

// Summarize describes a layer: sizes, time range and track length statistics
func Summarize(l *tracks.Layer) models.Summary {
	ids := l.Features()[tracks.ColTrackID]
	lengths := make([]float64, 0, len(l.TrackIDs()))
	run := 0.0
	for i := range ids {
		run++
		if i == len(ids)-1 || ids[i+1] != ids[i] {
			lengths = append(lengths, run)
			run = 0
		}
	}
	mean, std := stat.MeanStdDev(lengths, nil)
	if len(lengths) < 2 {
		std = 0
	}

	times := l.Times()
	return models.Summary{
		Name:         l.Name(),
		Observations: l.Len(),
		Tracks:       len(lengths),
		NDim:         l.NDim(),
		TimePoints:   len(times),
		FirstTime:    times[0],
		LastTime:     times[len(times)-1],
		MaxLength:    l.MaxLength(),
		MeanLength:   mean,
		StdLength:    std,
		Roots:        len(l.Roots()),
		Properties:   l.ColorByOptions(),
	}
}
