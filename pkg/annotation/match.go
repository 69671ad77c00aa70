package annotation

// Dedupe merges near-duplicate objects in a single left-to-right pass. Each
// object is merged into the first accumulated entry it merges with, or
// appended as a new entry. Entries are never revisited, so chains of boxes
// may not fully collapse depending on input order.
func Dedupe(objects []Object, tolerance int) []Object {
	result := make([]Object, 0, len(objects))
	for _, o := range objects {
		merged := false
		for i, acc := range result {
			if m, ok := acc.Merge(o, tolerance); ok {
				result[i] = m
				merged = true
				break
			}
		}
		if !merged {
			result = append(result, o)
		}
	}
	return result
}

// CountFalse matches every ground-truth object to the first unused predicted
// object of the same category that overlaps it. It returns the number of
// unmatched truth objects and the number of unused predictions.
//
// Matching is greedy and one-to-one, not a globally optimal assignment.
func CountFalse(predicted, truth []Object) (falseNegatives, falsePositives int) {
	used := make([]bool, len(predicted))
	for _, t := range truth {
		found := false
		for i, p := range predicted {
			if used[i] || p.Category != t.Category {
				continue
			}
			if p.Box.Overlaps(t.Box) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			falseNegatives++
		}
	}
	for _, u := range used {
		if !u {
			falsePositives++
		}
	}
	return falseNegatives, falsePositives
}
