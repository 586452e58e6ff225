package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PrepConfig represents the preparation parameters for one benchmark run.
// Fields omitted from the JSON file retain their defaults via the Get*
// accessors, so partial configs are safe.
type PrepConfig struct {
	// Dataset selection
	Small      *bool  `json:"small,omitempty"`
	ImputeNaNs *bool  `json:"impute_nans,omitempty"`
	Freq       *string `json:"freq,omitempty"` // duration string like "60m"

	// Evaluation-mask params
	MaskedSensors []int   `json:"masked_sensors,omitempty"`
	InferFrom     *string `json:"infer_from,omitempty"` // "next" or "previous"
	AnchorStride  *int    `json:"anchor_stride,omitempty"`

	// Split params
	TestMonths []int    `json:"test_months,omitempty"`
	ValLen     *float64 `json:"val_len,omitempty"` // fraction < 1.0 or absolute count
	Window     *int     `json:"window,omitempty"`
	InSample   *bool    `json:"in_sample,omitempty"`

	// Sample windowing params
	WindowLen *int `json:"window_len,omitempty"`
	Horizon   *int `json:"horizon,omitempty"`

	// Similarity params
	SimilarityThr  *float64 `json:"similarity_thr,omitempty"`
	IncludeSelf    *bool    `json:"include_self,omitempty"`
	ForceSymmetric *bool    `json:"force_symmetric,omitempty"`
	SparseAdj      *bool    `json:"sparse_adj,omitempty"`
}

// EmptyPrepConfig returns a PrepConfig with all fields unset.
func EmptyPrepConfig() *PrepConfig {
	return &PrepConfig{}
}

// LoadPrepConfig loads a PrepConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadPrepConfig(path string) (*PrepConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPrepConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *PrepConfig) Validate() error {
	if c.ValLen != nil && *c.ValLen <= 0 {
		return fmt.Errorf("val_len must be positive, got %f", *c.ValLen)
	}
	if c.Window != nil && *c.Window < 0 {
		return fmt.Errorf("window must be non-negative, got %d", *c.Window)
	}
	if c.WindowLen != nil && *c.WindowLen <= 0 {
		return fmt.Errorf("window_len must be positive, got %d", *c.WindowLen)
	}
	if c.Horizon != nil && *c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", *c.Horizon)
	}
	if c.AnchorStride != nil && *c.AnchorStride <= 0 {
		return fmt.Errorf("anchor_stride must be positive, got %d", *c.AnchorStride)
	}
	if c.InferFrom != nil {
		if *c.InferFrom != "next" && *c.InferFrom != "previous" {
			return fmt.Errorf("infer_from must be 'next' or 'previous', got %q", *c.InferFrom)
		}
	}
	for _, m := range c.TestMonths {
		if m < 1 || m > 12 {
			return fmt.Errorf("test month out of range: %d", m)
		}
	}
	for _, s := range c.MaskedSensors {
		if s < 0 {
			return fmt.Errorf("masked sensor index must be non-negative, got %d", s)
		}
	}
	return nil
}

// GetSmall returns the small value or the default.
func (c *PrepConfig) GetSmall() bool {
	if c.Small == nil {
		return false
	}
	return *c.Small
}

// GetImputeNaNs returns the impute_nans value or the default.
func (c *PrepConfig) GetImputeNaNs() bool {
	if c.ImputeNaNs == nil {
		return false
	}
	return *c.ImputeNaNs
}

// GetFreq returns the freq value or the default.
func (c *PrepConfig) GetFreq() string {
	if c.Freq == nil || *c.Freq == "" {
		return "60m"
	}
	return *c.Freq
}

// GetInferFrom returns the infer_from value or the default.
func (c *PrepConfig) GetInferFrom() string {
	if c.InferFrom == nil || *c.InferFrom == "" {
		return "next"
	}
	return *c.InferFrom
}

// GetAnchorStride returns the anchor_stride value or the default.
func (c *PrepConfig) GetAnchorStride() int {
	if c.AnchorStride == nil {
		return 5
	}
	return *c.AnchorStride
}

// GetTestMonths returns the test_months value or the quarterly default.
func (c *PrepConfig) GetTestMonths() []int {
	if len(c.TestMonths) == 0 {
		return []int{3, 6, 9, 12}
	}
	return c.TestMonths
}

// GetValLen returns the val_len value or the default.
func (c *PrepConfig) GetValLen() float64 {
	if c.ValLen == nil {
		return 0.1
	}
	return *c.ValLen
}

// GetWindow returns the window value or the default.
func (c *PrepConfig) GetWindow() int {
	if c.Window == nil {
		return 0
	}
	return *c.Window
}

// GetInSample returns the in_sample value or the default.
func (c *PrepConfig) GetInSample() bool {
	if c.InSample == nil {
		return false
	}
	return *c.InSample
}

// GetWindowLen returns the window_len value or the default.
func (c *PrepConfig) GetWindowLen() int {
	if c.WindowLen == nil {
		return 24
	}
	return *c.WindowLen
}

// GetHorizon returns the horizon value or the default.
func (c *PrepConfig) GetHorizon() int {
	if c.Horizon == nil {
		return 24
	}
	return *c.Horizon
}

// GetSimilarityThr returns the similarity_thr value or the default.
func (c *PrepConfig) GetSimilarityThr() float64 {
	if c.SimilarityThr == nil {
		return 0.1
	}
	return *c.SimilarityThr
}

// GetIncludeSelf returns the include_self value or the default.
func (c *PrepConfig) GetIncludeSelf() bool {
	if c.IncludeSelf == nil {
		return false
	}
	return *c.IncludeSelf
}

// GetForceSymmetric returns the force_symmetric value or the default.
func (c *PrepConfig) GetForceSymmetric() bool {
	if c.ForceSymmetric == nil {
		return false
	}
	return *c.ForceSymmetric
}

// GetSparseAdj returns the sparse_adj value or the default.
func (c *PrepConfig) GetSparseAdj() bool {
	if c.SparseAdj == nil {
		return false
	}
	return *c.SparseAdj
}
