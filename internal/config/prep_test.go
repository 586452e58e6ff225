package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPrepConfig(t *testing.T) {
	path := writeConfig(t, "prep.json", `{
		"small": true,
		"impute_nans": true,
		"masked_sensors": [3, 7],
		"infer_from": "previous",
		"anchor_stride": 4,
		"test_months": [1, 7],
		"val_len": 0.2,
		"window_len": 12,
		"horizon": 6,
		"similarity_thr": 0.05,
		"sparse_adj": true
	}`)

	cfg, err := LoadPrepConfig(path)
	if err != nil {
		t.Fatalf("LoadPrepConfig() error: %v", err)
	}

	if !cfg.GetSmall() {
		t.Error("small not loaded")
	}
	if !cfg.GetImputeNaNs() {
		t.Error("impute_nans not loaded")
	}
	if got := cfg.GetInferFrom(); got != "previous" {
		t.Errorf("infer_from = %q, want previous", got)
	}
	if got := cfg.GetAnchorStride(); got != 4 {
		t.Errorf("anchor_stride = %d, want 4", got)
	}
	if got := cfg.GetTestMonths(); len(got) != 2 || got[0] != 1 || got[1] != 7 {
		t.Errorf("test_months = %v, want [1 7]", got)
	}
	if got := cfg.GetValLen(); got != 0.2 {
		t.Errorf("val_len = %v, want 0.2", got)
	}
	if got := cfg.GetWindowLen(); got != 12 {
		t.Errorf("window_len = %d, want 12", got)
	}
	if got := cfg.GetHorizon(); got != 6 {
		t.Errorf("horizon = %d, want 6", got)
	}
	if got := cfg.GetSimilarityThr(); got != 0.05 {
		t.Errorf("similarity_thr = %v, want 0.05", got)
	}
	if !cfg.GetSparseAdj() {
		t.Error("sparse_adj not loaded")
	}
	if got := len(cfg.MaskedSensors); got != 2 {
		t.Errorf("masked_sensors has %d entries, want 2", got)
	}
}

func TestLoadPrepConfigDefaults(t *testing.T) {
	path := writeConfig(t, "prep.json", `{}`)
	cfg, err := LoadPrepConfig(path)
	if err != nil {
		t.Fatalf("LoadPrepConfig() error: %v", err)
	}

	if cfg.GetSmall() {
		t.Error("small should default to false")
	}
	if got := cfg.GetFreq(); got != "60m" {
		t.Errorf("freq default = %q, want 60m", got)
	}
	if got := cfg.GetInferFrom(); got != "next" {
		t.Errorf("infer_from default = %q, want next", got)
	}
	if got := cfg.GetAnchorStride(); got != 5 {
		t.Errorf("anchor_stride default = %d, want 5", got)
	}
	if got := cfg.GetTestMonths(); len(got) != 4 || got[0] != 3 || got[3] != 12 {
		t.Errorf("test_months default = %v, want [3 6 9 12]", got)
	}
	if got := cfg.GetValLen(); got != 0.1 {
		t.Errorf("val_len default = %v, want 0.1", got)
	}
	if got := cfg.GetWindowLen(); got != 24 {
		t.Errorf("window_len default = %d, want 24", got)
	}
	if got := cfg.GetHorizon(); got != 24 {
		t.Errorf("horizon default = %d, want 24", got)
	}
	if got := cfg.GetSimilarityThr(); got != 0.1 {
		t.Errorf("similarity_thr default = %v, want 0.1", got)
	}
}

func TestLoadPrepConfigRejectsNonJSON(t *testing.T) {
	path := writeConfig(t, "prep.yaml", `small: true`)
	if _, err := LoadPrepConfig(path); err == nil {
		t.Error("expected error for non-.json extension")
	}
}

func TestLoadPrepConfigMissingFile(t *testing.T) {
	if _, err := LoadPrepConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }
	s := func(v string) *string { return &v }

	tests := []struct {
		name    string
		cfg     PrepConfig
		wantErr bool
	}{
		{"empty is valid", PrepConfig{}, false},
		{"negative val_len", PrepConfig{ValLen: f(-0.5)}, true},
		{"zero val_len", PrepConfig{ValLen: f(0)}, true},
		{"negative window", PrepConfig{Window: i(-1)}, true},
		{"zero window ok", PrepConfig{Window: i(0)}, false},
		{"zero window_len", PrepConfig{WindowLen: i(0)}, true},
		{"zero horizon", PrepConfig{Horizon: i(0)}, true},
		{"zero anchor_stride", PrepConfig{AnchorStride: i(0)}, true},
		{"bad infer_from", PrepConfig{InferFrom: s("sideways")}, true},
		{"month zero", PrepConfig{TestMonths: []int{0}}, true},
		{"month thirteen", PrepConfig{TestMonths: []int{13}}, true},
		{"negative masked sensor", PrepConfig{MaskedSensors: []int{-1}}, true},
		{"valid full", PrepConfig{ValLen: f(0.3), WindowLen: i(6), Horizon: i(6), InferFrom: s("next")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
