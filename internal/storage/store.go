package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	System     string             `json:"system"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Force      string             `json:"force"`
	Ordering   string             `json:"ordering"`
	Scheme     string             `json:"scheme"`
	Bodies     []string           `json:"bodies"`
	StepsTaken int                `json:"steps_taken"`
	Metrics    map[string]float64 `json:"metrics"`
}

// RunInfo describes how a result was produced.
type RunInfo struct {
	System   string
	Dt       float64
	Duration float64
	Force    string
	Ordering string
	Scheme   string
}

// Trajectory is the sampled output of a run as read back from disk.
// Positions[k][i] is body i at Times[k].
type Trajectory struct {
	Names     []string
	Times     []float64
	Positions [][]r3.Vec
}

// Index returns the column of the named body, or -1.
func (t *Trajectory) Index(name string) int {
	for i, n := range t.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Save writes states.csv and metadata.json under a new run directory and
// returns the run id. Non-finite metric values are left out of the
// metadata. On failure the run directory is removed.
func (s *Store) Save(info RunInfo, result *sim.Result) (runID string, err error) {
	now := time.Now()
	runID = fmt.Sprintf("%s_%d", info.System, now.Unix())
	runDir := filepath.Join(s.baseDir, runID)
	for n := 2; exists(runDir); n++ {
		runID = fmt.Sprintf("%s_%d_%d", info.System, now.Unix(), n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
			runID = ""
		}
	}()

	traj := &Trajectory{Names: result.Names, Times: result.Times, Positions: result.Positions}
	err = writeFile(filepath.Join(runDir, "states.csv"), func(w io.Writer) error {
		return WriteCSV(w, traj)
	})
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		System:     info.System,
		Timestamp:  now,
		Dt:         info.Dt,
		Duration:   info.Duration,
		Force:      info.Force,
		Ordering:   info.Ordering,
		Scheme:     info.Scheme,
		Bodies:     result.Names,
		StepsTaken: result.StepsTaken,
		Metrics:    finiteMetrics(result.Metrics),
	}
	err = writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}

	return runID, nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// finiteMetrics drops NaN and Inf values, which JSON cannot encode.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for name, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[name] = v
	}
	return out
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadStates(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{}
	if len(records) == 0 {
		return traj, nil
	}

	header := records[0]
	if len(header) == 0 || header[0] != "time" || (len(header)-1)%3 != 0 {
		return nil, fmt.Errorf("states.csv: unexpected header %v", header)
	}
	for c := 1; c < len(header); c += 3 {
		traj.Names = append(traj.Names, strings.TrimSuffix(header[c], "_x"))
	}

	n := len(traj.Names)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 1+3*n {
			continue
		}

		vals := make([]float64, len(record))
		ok := true
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		row := make([]r3.Vec, n)
		for b := 0; b < n; b++ {
			row[b] = r3.Vec{X: vals[1+3*b], Y: vals[2+3*b], Z: vals[3+3*b]}
		}
		traj.Times = append(traj.Times, vals[0])
		traj.Positions = append(traj.Positions, row)
	}

	return traj, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
