package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/menta2k/defect-dataset/pkg/evaluation"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score predicted objects against a ground-truth label file",
	Long: `Compares predicted objects stored as internal JSON with the ground-truth
labels of the same image. A prediction matches a truth object of the same
category when their boxes overlap; every truth object is matched at most once.`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("predicted", "", "internal JSON with predicted objects (required)")
	evalCmd.Flags().String("truth", "", "ground-truth label file (required)")
	evalCmd.Flags().String("image", "", "image the objects belong to (required)")
	evalCmd.Flags().Bool("dedupe", false, "merge duplicate predictions before scoring")
	evalCmd.Flags().Bool("json", false, "print the report as JSON")
	_ = evalCmd.MarkFlagRequired("predicted")
	_ = evalCmd.MarkFlagRequired("truth")
	_ = evalCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tk, err := newToolkit(cfg)
	if err != nil {
		return err
	}

	imagePath := mustGetString(cmd, "image")
	data, err := os.ReadFile(mustGetString(cmd, "predicted"))
	if err != nil {
		return fmt.Errorf("failed to read predictions: %w", err)
	}
	predicted, err := tk.LoadInternal(imagePath, data)
	if err != nil {
		return err
	}
	if mustGetBool(cmd, "dedupe") {
		predicted = tk.Dedupe(predicted)
	}
	truth, err := tk.LoadSampleFiles(imagePath, mustGetString(cmd, "truth"))
	if err != nil {
		return err
	}

	ev := evaluation.New()
	ev.Add(filepath.Base(imagePath), predicted, truth.Objects())
	report := ev.Report()

	if mustGetBool(cmd, "json") {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Print(report.String())
	return nil
}
