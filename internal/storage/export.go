package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes time,<body>_x,<body>_y,<body>_z,... rows. Every sample
// needs a time and one position per name.
func WriteCSV(w io.Writer, traj *Trajectory) error {
	if len(traj.Times) != len(traj.Positions) {
		return fmt.Errorf("trajectory has %d times for %d samples", len(traj.Times), len(traj.Positions))
	}
	for k, row := range traj.Positions {
		if len(row) != len(traj.Names) {
			return fmt.Errorf("sample %d has %d positions for %d bodies", k, len(row), len(traj.Names))
		}
	}

	cw := csv.NewWriter(w)

	header := []string{"time"}
	for _, name := range traj.Names {
		header = append(header, name+"_x", name+"_y", name+"_z")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for k := range traj.Positions {
		row := []string{formatFloat(traj.Times[k])}
		for _, p := range traj.Positions[k] {
			row = append(row, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type ExportBody struct {
	Name      string       `json:"name"`
	Positions [][3]float64 `json:"positions"`
}

type ExportData struct {
	ID       string             `json:"id"`
	System   string             `json:"system"`
	Force    string             `json:"force"`
	Ordering string             `json:"ordering"`
	Scheme   string             `json:"scheme"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Samples  int                `json:"samples"`
	Times    []float64          `json:"times"`
	Bodies   []ExportBody       `json:"bodies"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run and its trajectory as one JSON document, one
// position series per body.
func ExportJSON(w io.Writer, meta *RunMetadata, traj *Trajectory) error {
	data := ExportData{
		ID:       meta.ID,
		System:   meta.System,
		Force:    meta.Force,
		Ordering: meta.Ordering,
		Scheme:   meta.Scheme,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Samples:  len(traj.Times),
		Times:    traj.Times,
		Bodies:   make([]ExportBody, len(traj.Names)),
		Metrics:  meta.Metrics,
	}

	for i, name := range traj.Names {
		series := make([][3]float64, len(traj.Positions))
		for k, row := range traj.Positions {
			series[k] = [3]float64{row[i].X, row[i].Y, row[i].Z}
		}
		data.Bodies[i] = ExportBody{Name: name, Positions: series}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
