package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Merge duplicate labels of a single shot",
	Long: `Reads a label file together with its image, merges overlapping boxes of
the same category and prints the result as internal JSON. With --database the
objects are printed as {category, box} records with normalized box literals.`,
	Args: cobra.NoArgs,
	RunE: runDedupe,
}

func init() {
	dedupeCmd.Flags().String("image", "", "image file (required)")
	dedupeCmd.Flags().String("labels", "", "label file (required)")
	dedupeCmd.Flags().Int("tolerance", -1, "merge tolerance in pixels (overrides config)")
	dedupeCmd.Flags().Bool("database", false, "print database records instead of internal JSON")
	_ = dedupeCmd.MarkFlagRequired("image")
	_ = dedupeCmd.MarkFlagRequired("labels")
	rootCmd.AddCommand(dedupeCmd)
}

func runDedupe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if tol := mustGetInt(cmd, "tolerance"); tol >= 0 {
		cfg.Dedupe.Tolerance = tol
	}

	tk, err := newToolkit(cfg)
	if err != nil {
		return err
	}
	s, err := tk.LoadSampleFiles(mustGetString(cmd, "image"), mustGetString(cmd, "labels"))
	if err != nil {
		return err
	}
	deduped := tk.Dedupe(s)
	log.Printf("Merged %d objects into %d", s.Len(), deduped.Len())

	var out []byte
	if mustGetBool(cmd, "database") {
		recs, err := deduped.ToDatabaseJSON(tk.Categories())
		if err != nil {
			return err
		}
		out, err = json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode records: %w", err)
		}
	} else {
		out, err = json.MarshalIndent(deduped.ToInternal(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode objects: %w", err)
		}
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}

