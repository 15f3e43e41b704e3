// YAML config loader with CUE schema validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefendedPosition is the location every threat converges on.
type DefendedPosition struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

// FrameConfig sizes the synthetic frame source.
type FrameConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Patches int `yaml:"patches"`
}

// DetectorConfig tunes the motion detector grid and clustering.
type DetectorConfig struct {
	BlockStridePx    int     `yaml:"block_stride_px"`
	ClusterRadiusPct float64 `yaml:"cluster_radius_pct"`
}

// SweepConfig tunes the rotating reveal controller.
type SweepConfig struct {
	StepDeg   float64 `yaml:"step_deg"`
	WindowDeg float64 `yaml:"window_deg"`
	FadeMs    int     `yaml:"fade_ms"`
}

// Intervals are the tick cadences in milliseconds.
type Intervals struct {
	SweepMs  int `yaml:"sweep_ms"`
	ThreatMs int `yaml:"threat_ms"`
	FrameMs  int `yaml:"frame_ms"`
}

// SimulationConfig is the root configuration.
type SimulationConfig struct {
	DefendedPosition DefendedPosition `yaml:"defended_position"`
	Sensitivity      float64          `yaml:"sensitivity"`
	Frame            FrameConfig      `yaml:"frame"`
	Detector         DetectorConfig   `yaml:"detector"`
	Sweep            SweepConfig      `yaml:"sweep"`
	Intervals        Intervals        `yaml:"intervals"`
	CatalogPath      string           `yaml:"catalog_path,omitempty"`
}

// Defaults fills zero values with the documented defaults so a minimal
// config file stays small.
func (c *SimulationConfig) Defaults() {
	if c.Sensitivity == 0 {
		c.Sensitivity = 50
	}
	if c.Frame.Width == 0 {
		c.Frame.Width = 320
	}
	if c.Frame.Height == 0 {
		c.Frame.Height = 240
	}
	if c.Frame.Patches == 0 {
		c.Frame.Patches = 3
	}
	if c.Detector.BlockStridePx == 0 {
		c.Detector.BlockStridePx = 10
	}
	if c.Detector.ClusterRadiusPct == 0 {
		c.Detector.ClusterRadiusPct = 15
	}
	if c.Sweep.StepDeg == 0 {
		c.Sweep.StepDeg = 2
	}
	if c.Sweep.WindowDeg == 0 {
		c.Sweep.WindowDeg = 20
	}
	if c.Sweep.FadeMs == 0 {
		c.Sweep.FadeMs = 2000
	}
	if c.Intervals.SweepMs == 0 {
		c.Intervals.SweepMs = 30
	}
	if c.Intervals.ThreatMs == 0 {
		c.Intervals.ThreatMs = 50
	}
	if c.Intervals.FrameMs == 0 {
		c.Intervals.FrameMs = 500
	}
}

// Load reads YAML config, validates it against the CUE schema, and
// applies defaults.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Defaults()

	if cfg.DefendedPosition.Name == "" {
		return nil, fmt.Errorf("config %s: defended_position.name is required", configPath)
	}
	if cfg.Sensitivity < 0 || cfg.Sensitivity > 100 {
		return nil, fmt.Errorf("config %s: sensitivity %.1f outside [0,100]", configPath, cfg.Sensitivity)
	}
	return &cfg, nil
}
