package annotation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name      string
		in        []Object
		tolerance int
		want      []Object
	}{
		{
			name:      "overlapping",
			in:        []Object{obj(0, 0, 3, 3, 0), obj(2, 2, 5, 5, 0)},
			tolerance: 2,
			want:      []Object{obj(0, 0, 5, 5, 0)},
		},
		{
			name:      "intact",
			in:        []Object{obj(0, 0, 3, 3, 0), obj(10, 10, 13, 13, 0)},
			tolerance: 2,
			want:      []Object{obj(0, 0, 3, 3, 0), obj(10, 10, 13, 13, 0)},
		},
		{
			name:      "three overlap",
			in:        []Object{obj(0, 0, 3, 3, 0), obj(2, 2, 5, 5, 0), obj(4, 4, 6, 8, 0)},
			tolerance: 2,
			want:      []Object{obj(0, 0, 6, 8, 0)},
		},
		{
			name: "real",
			in: []Object{
				obj(2405, 913, 2633, 1146, 0),
				obj(2406, 915, 2632, 1149, 0),
				obj(2407, 914, 2631, 1143, 0),
			},
			tolerance: DefaultTolerance,
			want:      []Object{obj(2405, 913, 2633, 1149, 0)},
		},
		{
			name:      "categories kept apart",
			in:        []Object{obj(0, 0, 3, 3, 0), obj(1, 1, 3, 3, 1)},
			tolerance: 2,
			want:      []Object{obj(0, 0, 3, 3, 0), obj(1, 1, 3, 3, 1)},
		},
		{
			name:      "empty",
			in:        nil,
			tolerance: 2,
			want:      []Object{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dedupe(tt.in, tt.tolerance)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Dedupe mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDedupeIsOrderDependent(t *testing.T) {
	a := obj(0, 0, 2, 2, 0)
	b := obj(10, 0, 12, 2, 0)
	c := obj(5, 0, 7, 2, 0)

	// b is already finalized as its own entry by the time a and c merge
	got := Dedupe([]Object{a, b, c}, 3)
	want := []Object{obj(0, 0, 7, 2, 0), b}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("a,b,c (-want +got):\n%s", diff)
	}

	got = Dedupe([]Object{a, c, b}, 3)
	want = []Object{obj(0, 0, 12, 2, 0)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("a,c,b (-want +got):\n%s", diff)
	}
}

func TestDedupeDoesNotModifyInput(t *testing.T) {
	in := []Object{obj(0, 0, 3, 3, 0), obj(2, 2, 5, 5, 0)}
	Dedupe(in, 2)
	if in[0] != obj(0, 0, 3, 3, 0) {
		t.Errorf("input changed: %v", in)
	}
}

func TestCountFalse(t *testing.T) {
	truth := []Object{
		obj(14, 6, 25, 17, 0),
		obj(45, 12, 61, 26, 0),
		obj(19, 57, 28, 67, 0),
	}
	predicted := []Object{
		obj(9, 9, 20, 20, 0),
		obj(41, 9, 64, 29, 0),
		obj(51, 40, 66, 53, 0),
		obj(15, 31, 26, 40, 0),
	}

	fn, fp := CountFalse(predicted, truth)
	if fn != 1 || fp != 2 {
		t.Errorf("CountFalse = (%d, %d), want (1, 2)", fn, fp)
	}
}

func TestCountFalseOneToOne(t *testing.T) {
	// one prediction covers two truths but may only be consumed once
	predicted := []Object{obj(0, 0, 10, 10, 0)}
	truth := []Object{obj(1, 1, 3, 3, 0), obj(5, 5, 8, 8, 0)}

	fn, fp := CountFalse(predicted, truth)
	if fn != 1 || fp != 0 {
		t.Errorf("CountFalse = (%d, %d), want (1, 0)", fn, fp)
	}
}

func TestCountFalseCategoryMismatch(t *testing.T) {
	fn, fp := CountFalse([]Object{obj(0, 0, 5, 5, 1)}, []Object{obj(0, 0, 5, 5, 0)})
	if fn != 1 || fp != 1 {
		t.Errorf("CountFalse = (%d, %d), want (1, 1)", fn, fp)
	}
}
