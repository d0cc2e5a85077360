package storage

import (
	"context"
	"testing"

	"github.com/PuffyDucks/elph/internal/config"
	"github.com/PuffyDucks/elph/internal/engine"
)

func smallRun(t *testing.T) (*config.Config, *engine.Run) {
	t.Helper()
	cfg := config.GetPreset("rubrene")
	cfg.Nx, cfg.Ny = 2, 2
	cfg.Realizations = 4
	cfg.Seed = 5

	eng, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	run, err := eng.Run(context.Background())
	if err != nil {
		t.Fatalf("engine.Run: %v", err)
	}
	return cfg, run
}

func TestStore_SaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	cfg, run := smallRun(t)
	runID, err := st.Save("rubrene", cfg, run)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("loaded ID = %q, want %q", meta.ID, runID)
	}
	if meta.Result.MobilityAvg != run.MobilityAvg {
		t.Errorf("loaded mobility = %v, want %v", meta.Result.MobilityAvg, run.MobilityAvg)
	}
	if meta.Realizations != len(run.Samples) {
		t.Errorf("loaded realizations = %d, want %d", meta.Realizations, len(run.Samples))
	}
	if meta.Config == nil || meta.Config.Nx != cfg.Nx {
		t.Error("config echo missing or wrong")
	}
}

func TestStore_LoadSamples(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	cfg, run := smallRun(t)
	runID, err := st.Save("rubrene", cfg, run)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("LoadSamples: %v", err)
	}
	if len(samples) != len(run.Samples) {
		t.Fatalf("loaded %d samples, want %d", len(samples), len(run.Samples))
	}
	for i := range samples {
		if samples[i] != run.Samples[i] {
			t.Errorf("sample %d = %+v, want %+v", i, samples[i], run.Samples[i])
		}
	}
}

func TestStore_List(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("empty store listed %d runs", len(runs))
	}

	cfg, run := smallRun(t)
	if _, err := st.Save("a", cfg, run); err != nil {
		t.Fatalf("Save: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("listed %d runs, want 1", len(runs))
	}
}
