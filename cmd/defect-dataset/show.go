package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/menta2k/defect-dataset/internal/utils"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Draw the labels and fabric region of a shot",
	Long: `Renders a debug overlay of a dataset shot: every labelled box is outlined
in red and the fabric region used for cropping in gold.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("file", "", "shot file name inside the image folder (required)")
	showCmd.Flags().String("out", "", "output image (default <name>_overlay.<format> in the output directory)")
	_ = showCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tk, err := newToolkit(cfg)
	if err != nil {
		return err
	}

	name := mustGetString(cmd, "file")
	out := mustGetString(cmd, "out")
	if out == "" {
		out = filepath.Join(cfg.Output.OutputDir, utils.TrimExt(name)+"_overlay."+cfg.Output.Format)
	}
	if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
		return err
	}

	img, err := tk.Overlay(name)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	if err := tk.SaveImage(img, out); err != nil {
		return err
	}
	log.Printf("Saved overlay to %s", out)
	return nil
}
