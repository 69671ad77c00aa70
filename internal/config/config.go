package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/menta2k/defect-dataset/internal/utils"
	"github.com/menta2k/defect-dataset/pkg/types"
)

// Environment variables that override file settings
const (
	EnvRoot = "DEFECT_DATASET_ROOT"
	EnvOut  = "DEFECT_DATASET_OUT"
	EnvTile = "DEFECT_DATASET_TILE"
)

// Config holds the application configuration
type Config struct {
	Dataset    DatasetConfig `json:"dataset"`
	Tiles      TilesConfig   `json:"tiles"`
	Dedupe     DedupeConfig  `json:"dedupe"`
	Output     OutputConfig  `json:"output"`
	Categories []string      `json:"categories"`
}

// DatasetConfig holds the location and layout of the raw shots
type DatasetConfig struct {
	Root         string `json:"root"`
	ImageFolder  string `json:"image_folder"`
	LabelFolder  string `json:"label_folder"`
	CropTable    string `json:"crop_table,omitempty"` // YAML file, built-in table when empty
	CropToFabric bool   `json:"crop_to_fabric"`
}

// TilesConfig holds configuration for tile extraction
type TilesConfig struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	EmptyPerImage int    `json:"empty_per_image"`
	Seed          uint64 `json:"seed"` // 0 draws from the process-wide generator
}

// DedupeConfig holds configuration for label merging
type DedupeConfig struct {
	Tolerance int `json:"tolerance"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format    string `json:"format"`
	Quality   int    `json:"quality"`
	Lossless  bool   `json:"lossless"`
	OutputDir string `json:"output_dir"`
	Manifest  string `json:"manifest"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Root:         ".",
			ImageFolder:  "images",
			LabelFolder:  "labels",
			CropToFabric: true,
		},
		Tiles: TilesConfig{
			Width:         256,
			Height:        256,
			EmptyPerImage: 1,
		},
		Dedupe: DedupeConfig{
			Tolerance: 2,
		},
		Output: OutputConfig{
			Format:    "jpg",
			Quality:   90,
			OutputDir: "./output",
			Manifest:  "manifest.json",
		},
		Categories: []string{"defect", "hole", "misc", "stripe"},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from the environment. DEFECT_DATASET_TILE sets
// a square tile size.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvRoot); v != "" {
		c.Dataset.Root = v
	}
	if v := os.Getenv(EnvOut); v != "" {
		c.Output.OutputDir = v
	}
	if n := envInt(EnvTile, 0); n > 0 {
		c.Tiles.Width = n
		c.Tiles.Height = n
	}
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Dataset.ImageFolder == "" || c.Dataset.LabelFolder == "" {
		return fmt.Errorf("dataset.image_folder and dataset.label_folder cannot be empty")
	}

	if c.Tiles.Width < 1 || c.Tiles.Height < 1 {
		return fmt.Errorf("tiles.width and tiles.height must be positive")
	}

	if c.Tiles.EmptyPerImage < 0 {
		return fmt.Errorf("tiles.empty_per_image cannot be negative")
	}

	if c.Dedupe.Tolerance < 0 {
		return fmt.Errorf("dedupe.tolerance cannot be negative")
	}

	if !utils.IsTileFormat(c.Output.Format) {
		return fmt.Errorf("output.format %q is not supported", c.Output.Format)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if len(c.Categories) == 0 {
		return fmt.Errorf("categories cannot be empty")
	}

	return nil
}

// ExportOptions converts the configuration to exporter options
func (c *Config) ExportOptions() types.ExportOptions {
	return types.ExportOptions{
		OutputDir: c.Output.OutputDir,
		Tile: types.TileConfig{
			Width:     c.Tiles.Width,
			Height:    c.Tiles.Height,
			Quality:   c.Output.Quality,
			Lossless:  c.Output.Lossless,
			Extension: c.Output.Format,
		},
		EmptyPerImage: c.Tiles.EmptyPerImage,
		CategoryNames: c.Categories,
		Tolerance:     c.Dedupe.Tolerance,
		CropToFabric:  c.Dataset.CropToFabric,
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "defect-dataset", "config.json")
}
