package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Names: []string{"Sun", "Earth"},
		Times: []float64{0, 864},
		Positions: [][]r3.Vec{
			{{}, {X: 1.496e11}},
			{{X: 0.1, Y: -0.2}, {X: 1.496e11, Y: 2.5729e7, Z: 3}},
		},
		StepsTaken: 1,
		Metrics:    map[string]float64{"energy_drift": 1.5e-9},
	}
}

func testInfo() RunInfo {
	return RunInfo{
		System:   "earth-sun",
		Dt:       864,
		Duration: 864,
		Force:    "newtonian",
		Ordering: "sequential",
		Scheme:   "euler",
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testInfo(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "earth-sun_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.System != "earth-sun" || meta.Force != "newtonian" || meta.Ordering != "sequential" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.StepsTaken != 1 {
		t.Errorf("expected 1 step, got %d", meta.StepsTaken)
	}
	if meta.Metrics["energy_drift"] != 1.5e-9 {
		t.Errorf("expected energy_drift 1.5e-9, got %g", meta.Metrics["energy_drift"])
	}
	if len(meta.Bodies) != 2 || meta.Bodies[1] != "Earth" {
		t.Errorf("unexpected bodies %v", meta.Bodies)
	}

	traj, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	want := testResult()
	if len(traj.Times) != 2 || len(traj.Positions) != 2 {
		t.Fatalf("expected 2 samples, got %d/%d", len(traj.Times), len(traj.Positions))
	}
	if traj.Names[0] != "Sun" || traj.Names[1] != "Earth" {
		t.Errorf("unexpected names %v", traj.Names)
	}
	for k := range want.Positions {
		for i := range want.Positions[k] {
			if traj.Positions[k][i] != want.Positions[k][i] {
				t.Errorf("sample %d body %d: expected %v, got %v", k, i, want.Positions[k][i], traj.Positions[k][i])
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, err := st.Save(testInfo(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(testInfo(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatalf("run ids collide: %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testInfo(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatalf("states.csv not readable: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if header != "time,Sun_x,Sun_y,Sun_z,Earth_x,Earth_y,Earth_z" {
		t.Errorf("unexpected header %q", header)
	}
}

func TestLoadStatesBadHeader(t *testing.T) {
	tmpDir := t.TempDir()
	runDir := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "states.csv"), []byte("t,x0\n0,1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(tmpDir).LoadStates("broken"); err == nil {
		t.Error("expected error for foreign header")
	}
}

func TestExportJSON(t *testing.T) {
	res := testResult()
	meta := &RunMetadata{ID: "earth-sun_1", System: "earth-sun", Dt: 864, Metrics: res.Metrics}
	traj := &Trajectory{Names: res.Names, Times: res.Times, Positions: res.Positions}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, traj); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Samples != 2 || len(got.Bodies) != 2 {
		t.Fatalf("unexpected shape: samples=%d bodies=%d", got.Samples, len(got.Bodies))
	}
	if got.Bodies[1].Name != "Earth" || got.Bodies[1].Positions[1] != [3]float64{1.496e11, 2.5729e7, 3} {
		t.Errorf("unexpected earth series %+v", got.Bodies[1])
	}
}

func TestStoreSaveDropsNonFiniteMetrics(t *testing.T) {
	st := New(t.TempDir())
	res := testResult()
	res.Metrics = map[string]float64{
		"energy_drift": math.NaN(),
		"radius_drift": math.Inf(1),
		"bound":        0.5,
	}

	runID, err := st.Save(testInfo(), res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(meta.Metrics) != 1 || meta.Metrics["bound"] != 0.5 {
		t.Errorf("expected only bound, got %v", meta.Metrics)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreSaveCleansUpOnError(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	res := testResult()
	res.Times = res.Times[:1]

	runID, err := st.Save(testInfo(), res)
	if err == nil {
		t.Fatal("expected error for mismatched samples")
	}
	if runID != "" {
		t.Errorf("expected no run id, got %q", runID)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no run directory left, found %d entries", len(entries))
	}
}

func TestStoreSaveStoppedRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Name = "crash"
	cfg.DurationDays = 1
	cfg.Bodies = []config.BodyConfig{
		{Name: "a", Mass: 1e30},
		{Name: "b", Mass: 1e30},
		{Name: "c", Mass: 1e30, Position: [3]float64{1e11, 0, 0}},
	}

	exp := experiment.New(cfg, nil)
	if err := exp.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], dynamo.ErrNonFinite) {
		t.Fatalf("expected one non-finite error, got %v", result.Errors)
	}
	for name, v := range result.Metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("metric %s is %g", name, v)
		}
	}

	st := New(t.TempDir())
	runID, err := st.Save(testInfo(), result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("expected the stopped run to be listed, got %+v", runs)
	}

	traj, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	for k, row := range traj.Positions {
		for i, p := range row {
			if !dynamo.Finite(p) {
				t.Errorf("sample %d body %d stored non-finite %v", k, i, p)
			}
		}
	}
}

func TestWriteCSVShapeMismatch(t *testing.T) {
	res := testResult()
	traj := &Trajectory{Names: res.Names[:1], Times: res.Times, Positions: res.Positions}
	if err := WriteCSV(&bytes.Buffer{}, traj); err == nil {
		t.Error("expected error for missing body names")
	}
}

func TestTrajectoryIndex(t *testing.T) {
	res := testResult()
	traj := &Trajectory{Names: res.Names, Times: res.Times, Positions: res.Positions}

	tests := []struct {
		name string
		want int
	}{
		{"Sun", 0},
		{"Earth", 1},
		{"Pluto", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := traj.Index(tt.name); got != tt.want {
			t.Errorf("Index(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}
