// Package dataset loads track tables from CSV and YAML files into the form
// consumed by tracks.NewLayer.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"ndtracks/internal/models"
	"ndtracks/pkg/tracks"
)

// Dataset is a track table read from disk
type Dataset struct {
	Name       string
	Data       *mat.Dense
	Properties map[string][]float64
	Graph      map[int][]int
	ColorBy    string
	TailLength *int
	HeadLength *int
}

// coordinate columns, in the order they appear in the observation matrix
var dataColumns = []string{tracks.ColTrackID, tracks.ColTime, "time", "z", "y", "x"}

// Load reads a track file, choosing the format by extension (.csv, .yaml, .yml)
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening track file: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		ds, err := ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}
		ds.Name = name
		return ds, nil
	case ".yaml", ".yml":
		ds, err := ReadYAML(f)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}
		if ds.Name == "" {
			ds.Name = name
		}
		return ds, nil
	default:
		return nil, fmt.Errorf("unsupported track file extension %q", filepath.Ext(path))
	}
}

// ReadCSV reads a header row followed by numeric rows. Columns other than
// track_id, t/time, z, y and x become properties.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV needs a header and at least one row")
	}

	header := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", i+2, header[j], err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return fromTable(header, rows)
}

// ReadYAML reads a models.TrackFile document
func ReadYAML(r io.Reader) (*Dataset, error) {
	var tf models.TrackFile
	if err := yaml.NewDecoder(r).Decode(&tf); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	columns := tf.Columns
	if len(columns) == 0 && len(tf.Rows) > 0 {
		switch len(tf.Rows[0]) {
		case 4:
			columns = []string{tracks.ColTrackID, tracks.ColTime, "y", "x"}
		case 5:
			columns = []string{tracks.ColTrackID, tracks.ColTime, "z", "y", "x"}
		}
	}
	ds, err := fromTable(columns, tf.Rows)
	if err != nil {
		return nil, err
	}
	for k, v := range tf.Properties {
		if _, dup := ds.Properties[k]; dup {
			return nil, fmt.Errorf("property %q given both as a column and in properties", k)
		}
		ds.Properties[k] = v
	}
	ds.Name = tf.Name
	ds.Graph = tf.Graph
	ds.ColorBy = tf.ColorBy
	ds.TailLength = tf.TailLength
	ds.HeadLength = tf.HeadLength
	return ds, nil
}

// fromTable splits named columns into the observation matrix and properties
func fromTable(header []string, rows [][]float64) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no observations")
	}
	cols := make(map[string][]float64, len(header))
	for j, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := cols[h]; dup {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		col := make([]float64, len(rows))
		for i, row := range rows {
			if len(row) != len(header) {
				return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(header))
			}
			col[i] = row[j]
		}
		cols[h] = col
	}

	_, hasT := cols[tracks.ColTime]
	_, hasTime := cols["time"]
	if hasT && hasTime {
		return nil, fmt.Errorf("ambiguous time columns: both %q and \"time\" given", tracks.ColTime)
	}

	data, err := tracks.FromColumns(cols)
	if err != nil {
		return nil, err
	}
	props := make(map[string][]float64)
	for name, values := range cols {
		if !slices.Contains(dataColumns, name) {
			props[name] = values
		}
	}
	return &Dataset{Data: data, Properties: props}, nil
}

// Params merges the dataset's own settings into a copy of base
func (d *Dataset) Params(base *tracks.Params) *tracks.Params {
	p := tracks.DefaultParams()
	if base != nil {
		cp := *base
		p = &cp
	}
	if d.Name != "" {
		p.Name = d.Name
	}
	p.Properties = d.Properties
	p.Graph = d.Graph
	if d.ColorBy != "" {
		p.ColorBy = d.ColorBy
	}
	if d.TailLength != nil {
		p.TailLength = *d.TailLength
	}
	if d.HeadLength != nil {
		p.HeadLength = *d.HeadLength
	}
	return p
}

// NewLayer builds a tracks layer from the dataset
func (d *Dataset) NewLayer(base *tracks.Params) (*tracks.Layer, error) {
	return tracks.NewLayer(d.Data, d.Params(base))
}
