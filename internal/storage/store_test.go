package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravlab/internal/engine"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		Samples: []engine.Sample{
			{T: 0.0, Bodies: 100, Energy: -1.5e9, Momentum: 12.5},
			{T: 0.2, Bodies: 97, Energy: -1.48e9, Momentum: 13.1},
		},
		Metrics:      map[string]float64{"energy_drift": 0.013},
		StepsTaken:   25,
		AbsorbedMass: 340.0,
		EnergyDrift:  0.013,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("calm_belts", 0.008, 30.0, 42, "absorb", sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scenario != "calm_belts" {
		t.Errorf("expected scenario calm_belts, got %s", meta.Scenario)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.FinalBodies != 97 {
		t.Errorf("expected 97 final bodies, got %d", meta.FinalBodies)
	}
	if meta.Metrics["energy_drift"] != 0.013 {
		t.Errorf("expected drift metric 0.013, got %f", meta.Metrics["energy_drift"])
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1].Bodies != 97 {
		t.Errorf("expected 97 bodies in second sample, got %d", samples[1].Bodies)
	}
	if samples[0].T != 0.0 || samples[1].T != 0.2 {
		t.Errorf("unexpected sample times: %f, %f", samples[0].T, samples[1].T)
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

	if _, err := st.Save("star_nursery", 0.01, 10.0, 7, "absorb", sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("bh_arena", 0.003, 5.0, 1, "absorb", sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)

	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "samples.csv")); os.IsNotExist(err) {
		t.Error("samples.csv not created")
	}
}
