package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	defectdataset "github.com/menta2k/defect-dataset"
	"github.com/menta2k/defect-dataset/internal/config"
	"github.com/menta2k/defect-dataset/internal/utils"
)

var (
	configPath  string
	datasetRoot string
)

var rootCmd = &cobra.Command{
	Use:   "defect-dataset",
	Short: "Build and score fabric defect detection datasets",
	Long: `defect-dataset reads shots of fabric samples with their normalized label
files, crops them to the fabric region, merges duplicate labels and writes
training tiles with a COCO-style manifest. It can also score predicted labels
against ground truth.`,
	Version:      defectdataset.Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "JSON configuration file (default "+config.GetConfigPath()+" when present)")
	rootCmd.PersistentFlags().StringVar(&datasetRoot, "dataset", "", "dataset root containing raw/images and raw/labels")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig reads the configuration file, then applies environment and
// command line overrides
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" && utils.FileExists(config.GetConfigPath()) {
		path = config.GetConfigPath()
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		log.Printf("Loaded configuration from %s", path)
	}

	cfg.ApplyEnv()
	if datasetRoot != "" {
		cfg.Dataset.Root = datasetRoot
	}
	return cfg, nil
}

func newToolkit(cfg *config.Config) (*defectdataset.Toolkit, error) {
	if !utils.DirExists(cfg.Dataset.Root) {
		return nil, fmt.Errorf("dataset root %s does not exist", cfg.Dataset.Root)
	}
	return defectdataset.NewWithConfig(cfg)
}
