// Package evaluation scores predicted annotations against ground truth over
// a set of images.
package evaluation

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/menta2k/defect-dataset/pkg/annotation"
	"github.com/menta2k/defect-dataset/pkg/sample"
)

// ImageResult is the score of a single image
type ImageResult struct {
	Name           string `json:"name"`
	Truth          int    `json:"truth"`
	Predicted      int    `json:"predicted"`
	FalseNegatives int    `json:"false_negatives"`
	FalsePositives int    `json:"false_positives"`
}

// Report aggregates image results. Precision and recall are 0 when there is
// nothing to divide by.
type Report struct {
	Images         []ImageResult `json:"images"`
	Truth          int           `json:"truth"`
	Predicted      int           `json:"predicted"`
	FalseNegatives int           `json:"false_negatives"`
	FalsePositives int           `json:"false_positives"`
	Precision      float64       `json:"precision"`
	Recall         float64       `json:"recall"`
	MeanFN         float64       `json:"mean_fn"`
	StdFN          float64       `json:"std_fn"`
	MeanFP         float64       `json:"mean_fp"`
	StdFP          float64       `json:"std_fp"`
}

// Evaluator accumulates per-image results
type Evaluator struct {
	results []ImageResult
}

// New creates an empty evaluator
func New() *Evaluator {
	return &Evaluator{results: []ImageResult{}}
}

// Add scores predicted against truth and records the result under name
func (e *Evaluator) Add(name string, predicted sample.Sample, truth []annotation.Object) ImageResult {
	fn, fp := predicted.CountFalse(truth)
	r := ImageResult{
		Name:           name,
		Truth:          len(truth),
		Predicted:      predicted.Len(),
		FalseNegatives: fn,
		FalsePositives: fp,
	}
	e.results = append(e.results, r)
	return r
}

// Report summarizes everything added so far
func (e *Evaluator) Report() Report {
	r := Report{Images: append([]ImageResult{}, e.results...)}

	fns := make([]float64, 0, len(e.results))
	fps := make([]float64, 0, len(e.results))
	for _, res := range e.results {
		r.Truth += res.Truth
		r.Predicted += res.Predicted
		r.FalseNegatives += res.FalseNegatives
		r.FalsePositives += res.FalsePositives
		fns = append(fns, float64(res.FalseNegatives))
		fps = append(fps, float64(res.FalsePositives))
	}

	detected := float64(r.Truth - r.FalseNegatives)
	if r.Predicted > 0 {
		r.Precision = float64(r.Predicted-r.FalsePositives) / float64(r.Predicted)
	}
	if r.Truth > 0 {
		r.Recall = detected / float64(r.Truth)
	}

	r.MeanFN, r.StdFN = meanStdDev(fns)
	r.MeanFP, r.StdFP = meanStdDev(fps)
	return r
}

// meanStdDev returns zeros for an empty series and a zero deviation for a
// single value
func meanStdDev(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

func (r Report) String() string {
	var b strings.Builder
	for _, img := range r.Images {
		fmt.Fprintf(&b, "%-40s truth=%d predicted=%d fn=%d fp=%d\n",
			img.Name, img.Truth, img.Predicted, img.FalseNegatives, img.FalsePositives)
	}
	fmt.Fprintf(&b, "images=%d truth=%d predicted=%d fn=%d fp=%d\n",
		len(r.Images), r.Truth, r.Predicted, r.FalseNegatives, r.FalsePositives)
	fmt.Fprintf(&b, "precision=%.3f recall=%.3f\n", r.Precision, r.Recall)
	fmt.Fprintf(&b, "fn per image %.2f±%.2f, fp per image %.2f±%.2f\n", r.MeanFN, r.StdFN, r.MeanFP, r.StdFP)
	return b.String()
}
