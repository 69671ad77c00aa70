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

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Cut training tiles around defects and from empty fabric",
	Long: `Reads every shot of the dataset, crops it to its fabric region, merges
duplicate labels and writes one tile per defect plus a number of tiles without
defects. Tiles are numbered <id>.<ext> and described in a COCO-style manifest.`,
	Args: cobra.NoArgs,
	RunE: runTiles,
}

func init() {
	tilesCmd.Flags().String("out", "", "output directory (overrides config)")
	tilesCmd.Flags().String("tile", "", "tile size WxH or N (overrides config)")
	tilesCmd.Flags().Uint64("seed", 0, "seed for tile placement, 0 for random")
	tilesCmd.Flags().Int("empty", -1, "empty tiles per shot (overrides config)")
	tilesCmd.Flags().IntSlice("category", nil, "only cut tiles around these categories")
	tilesCmd.Flags().String("manifest", "", "manifest file name inside the output directory")
	rootCmd.AddCommand(tilesCmd)
}

func runTiles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if out := mustGetString(cmd, "out"); out != "" {
		cfg.Output.OutputDir = out
	}
	if tile := mustGetString(cmd, "tile"); tile != "" {
		size, err := parseTileSize(tile)
		if err != nil {
			return err
		}
		cfg.Tiles.Width, cfg.Tiles.Height = size.Width, size.Height
	}
	if seed, _ := cmd.Flags().GetUint64("seed"); seed != 0 {
		cfg.Tiles.Seed = seed
	}
	if empty := mustGetInt(cmd, "empty"); empty >= 0 {
		cfg.Tiles.EmptyPerImage = empty
	}
	if m := mustGetString(cmd, "manifest"); m != "" {
		cfg.Output.Manifest = m
	}
	categories, _ := cmd.Flags().GetIntSlice("category")

	tk, err := newToolkit(cfg)
	if err != nil {
		return err
	}
	names, err := tk.Reader().List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no shots found in %s", cfg.Dataset.Root)
	}

	exporter := tk.NewExporter(categories...)
	bar := progressbar.NewOptions(len(names),
		progressbar.OptionSetDescription("Cutting tiles"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("shots"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)

	total, skipped := 0, 0
	for _, name := range names {
		n, err := exporter.ExportTiles(name)
		_ = bar.Add(1)
		if errors.Is(err, dataset.ErrNoLabels) {
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		total += n
	}
	_ = bar.Finish()

	manifest := filepath.Join(cfg.Output.OutputDir, cfg.Output.Manifest)
	if err := exporter.WriteManifest(manifest); err != nil {
		return err
	}

	log.Printf("Wrote %d tiles from %d shots (%d without labels) to %s", total, len(names)-skipped, skipped, cfg.Output.OutputDir)
	log.Printf("Manifest: %s", manifest)
	return nil
}
