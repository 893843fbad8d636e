package models

// TrackFile is the YAML representation of a tracks layer on disk
type TrackFile struct {
	// Name is the layer name
	Name string `yaml:"name"`

	// Columns names the entries of each row, e.g. [track_id, t, y, x]
	Columns []string `yaml:"columns"`

	// Rows holds one observation per entry in the order given by Columns
	Rows [][]float64 `yaml:"rows"`

	// Properties holds per-observation values aligned with Rows
	Properties map[string][]float64 `yaml:"properties,omitempty"`

	// Graph maps a child track id to its parent track ids
	Graph map[int][]int `yaml:"graph,omitempty"`

	// ColorBy names the property driving track colours
	ColorBy string `yaml:"color_by,omitempty"`

	// TailLength and HeadLength bound the rendered window around the current time
	TailLength *int `yaml:"tail_length,omitempty"`
	HeadLength *int `yaml:"head_length,omitempty"`
}

// Summary describes a loaded layer for command output
type Summary struct {
	Name         string   `yaml:"name"`
	Observations int      `yaml:"observations"`
	Tracks       int      `yaml:"tracks"`
	NDim         int      `yaml:"ndim"`
	TimePoints   int      `yaml:"time_points"`
	FirstTime    float64  `yaml:"first_time"`
	LastTime     float64  `yaml:"last_time"`
	MaxLength    int      `yaml:"max_length"`
	MeanLength   float64  `yaml:"mean_length"`
	StdLength    float64  `yaml:"std_length"`
	Roots        int      `yaml:"roots"`
	Properties   []string `yaml:"properties"`
}
