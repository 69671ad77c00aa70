package main

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/menta2k/defect-dataset/pkg/dataset"
)

var cocoCmd = &cobra.Command{
	Use:   "coco",
	Short: "Export whole fabric regions with a COCO-style manifest",
	Long: `Crops every shot to its fabric region, merges duplicate labels and writes
the result without tiling. Images are numbered <id>.<ext> in the output
directory and the manifest is written to --out.`,
	Args: cobra.NoArgs,
	RunE: runCoco,
}

func init() {
	cocoCmd.Flags().String("out", "", "manifest path (default <output_dir>/<manifest>)")
	cocoCmd.Flags().String("images", "", "image output directory (overrides config)")
	rootCmd.AddCommand(cocoCmd)
}

func runCoco(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dir := mustGetString(cmd, "images"); dir != "" {
		cfg.Output.OutputDir = dir
	}
	manifest := mustGetString(cmd, "out")
	if manifest == "" {
		manifest = filepath.Join(cfg.Output.OutputDir, cfg.Output.Manifest)
	}

	tk, err := newToolkit(cfg)
	if err != nil {
		return err
	}
	names, err := tk.Reader().List()
	if err != nil {
		return err
	}

	exporter := tk.NewExporter()
	bar := progressbar.NewOptions(len(names),
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("shots"),
		progressbar.OptionFullWidth(),
	)

	skipped := 0
	for _, name := range names {
		err := exporter.ExportImage(name)
		_ = bar.Add(1)
		if errors.Is(err, dataset.ErrNoLabels) {
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	_ = bar.Finish()

	if err := exporter.WriteManifest(manifest); err != nil {
		return err
	}
	log.Printf("Exported %d shots (%d without labels), manifest %s", len(names)-skipped, skipped, manifest)
	return nil
}
