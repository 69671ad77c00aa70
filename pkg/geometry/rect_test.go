package geometry

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomRect(rng *rand.Rand, span int) Rect {
	return NewRect(Pt(rng.IntN(span)-span/4, rng.IntN(span)-span/4), Pt(rng.IntN(span)-span/4, rng.IntN(span)-span/4))
}

// intervalsOverlap is the inclusive per-axis intersection test
func intervalsOverlap(a, b Rect) bool {
	return a.LT.X <= b.RB.X && b.LT.X <= a.RB.X && a.LT.Y <= b.RB.Y && b.LT.Y <= a.RB.Y
}

func TestNewRectNormalizes(t *testing.T) {
	r := NewRect(Pt(5, 1), Pt(2, 7))
	assert.Equal(t, Rect{LT: Pt(2, 1), RB: Pt(5, 7)}, r)
	assert.Equal(t, Pt(5, 1), r.RT())
	assert.Equal(t, Pt(2, 7), r.LB())
	assert.Equal(t, Size{3, 6}, r.Size())

	cx, cy := r.Center()
	assert.Equal(t, 3.5, cx)
	assert.Equal(t, 4.0, cy)
}

func TestUnion(t *testing.T) {
	got := NewRect(Pt(1, 1), Pt(4, 4)).Union(NewRect(Pt(2, 2), Pt(4, 3)))
	assert.Equal(t, NewRect(Pt(1, 1), Pt(4, 4)), got)

	got = NewRect(Pt(0, 0), Pt(1, 1)).Union(NewRect(Pt(5, -2), Pt(6, 3)))
	assert.Equal(t, NewRect(Pt(0, -2), Pt(6, 3)), got)
}

func TestAddSub(t *testing.T) {
	r := NewRect(Pt(1, 1), Pt(4, 4))
	assert.Equal(t, NewRect(Pt(3, 0), Pt(6, 3)), r.Add(Pt(2, -1)))
	assert.Equal(t, NewRect(Pt(0, 0), Pt(3, 3)), r.Sub(Pt(1, 1)))
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want int
	}{
		{"gap on x", NewRect(Pt(1, 1), Pt(4, 4)), NewRect(Pt(5, 3), Pt(7, 4)), 1},
		{"touching edge", NewRect(Pt(0, 0), Pt(2, 2)), NewRect(Pt(2, 0), Pt(4, 2)), 0},
		{"gap on y", NewRect(Pt(0, 0), Pt(2, 2)), NewRect(Pt(0, 7), Pt(2, 9)), 5},
		{"nested", NewRect(Pt(0, 0), Pt(10, 10)), NewRect(Pt(4, 4), Pt(6, 6)), -6},
		{"crossing", NewRect(Pt(0, 2), Pt(10, 4)), NewRect(Pt(4, 0), Pt(6, 10)), -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Distance(tt.b))
			assert.Equal(t, tt.want, tt.b.Distance(tt.a), "distance is symmetric")
		})
	}
}

func TestOverlapsCrossing(t *testing.T) {
	// neither rect holds a corner of the other
	a := NewRect(Pt(0, 2), Pt(10, 4))
	b := NewRect(Pt(4, 0), Pt(6, 10))
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
}

func TestOverlapsMatchesDistance(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		a, b := randomRect(rng, 40), randomRect(rng, 40)
		require.Equal(t, a.Distance(b) <= 0, a.Overlaps(b), "%v %v", a, b)
		require.Equal(t, intervalsOverlap(a, b), a.Overlaps(b), "%v %v", a, b)
	}
}

func TestUnionProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 500; i++ {
		a, b := randomRect(rng, 50), randomRect(rng, 50)
		u := a.Union(b)

		for _, p := range []Point{a.LT, a.RB, b.LT, b.RB, a.RT(), b.LB()} {
			require.True(t, u.Contain(p), "%v should contain %v", u, p)
		}
		require.Equal(t, min(a.LT.X, b.LT.X), u.LT.X)
		require.Equal(t, min(a.LT.Y, b.LT.Y), u.LT.Y)
		require.Equal(t, max(a.RB.X, b.RB.X), u.RB.X)
		require.Equal(t, max(a.RB.Y, b.RB.Y), u.RB.Y)

		p := Pt(rng.IntN(100)-50, rng.IntN(100)-50)
		require.Equal(t, a, a.Add(p).Sub(p))
	}
}

func TestContain(t *testing.T) {
	r := NewRect(Pt(0, 0), Pt(4, 4))
	assert.True(t, r.Contain(Pt(0, 0)))
	assert.True(t, r.Contain(Pt(4, 4)))
	assert.True(t, r.Contain(Pt(2, 3)))
	assert.False(t, r.Contain(Pt(5, 4)))
	assert.False(t, r.Contain(Pt(-1, 2)))
}

func TestAdjustToBoundaries(t *testing.T) {
	canvas := Size{10, 10}

	tests := []struct {
		name   string
		in     Rect
		want   Rect
		wantOK bool
	}{
		{"inside", NewRect(Pt(1, 1), Pt(5, 5)), NewRect(Pt(1, 1), Pt(5, 5)), true},
		{"straddling", NewRect(Pt(-5, -5), Pt(5, 5)), NewRect(Pt(0, 0), Pt(5, 5)), true},
		{"straddling far edge", NewRect(Pt(6, 6), Pt(20, 20)), NewRect(Pt(6, 6), Pt(10, 10)), true},
		{"outside", NewRect(Pt(20, 20), Pt(30, 30)), Rect{}, false},
		{"touching only", NewRect(Pt(10, 0), Pt(15, 5)), Rect{}, false},
		{"too narrow", NewRect(Pt(-5, -5), Pt(2, 5)), Rect{}, false},
		{"too short", NewRect(Pt(3, 8), Pt(7, 14)), Rect{}, false},
		{"just wide enough", NewRect(Pt(-5, 0), Pt(3, 3)), NewRect(Pt(0, 0), Pt(3, 3)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.AdjustToBoundaries(canvas)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
				assert.True(t, got.LT.X >= 0 && got.LT.Y >= 0)
				assert.True(t, got.RB.X <= canvas.Width && got.RB.Y <= canvas.Height)
			}
		})
	}
}

func TestParseRelative(t *testing.T) {
	r, ok := ParseRelative("1 0.5 0.5 0.25 0.5", Size{200, 100})
	require.True(t, ok)
	assert.Equal(t, NewRect(Pt(75, 25), Pt(125, 75)), r)
	assert.Equal(t, Size{50, 50}, r.Size())

	// truncation toward zero
	r, ok = ParseRelative("0 0.5 0.5 0.33 0.33", Size{10, 10})
	require.True(t, ok)
	assert.Equal(t, Size{3, 3}, r.Size())

	for _, line := range []string{
		"",
		"0 0.5 0.5 0.25",
		"0 0.5 0.5 0.25 0.5 0.1",
		"0 0.5 x 0.25 0.5",
		"0 inf 0.5 0.1 0.1",
		"0 0.5 -Inf 0.1 0.1",
		"0 NaN 0.5 0.1 0.1",
		"0 0.5 0.5 nan 0.1",
		"0 1e300 0.5 0.1 0.1",
		"0 0.5 0.5 0.1 1e300",
	} {
		_, ok := ParseRelative(line, Size{100, 100})
		assert.False(t, ok, "line %q", line)
	}
}

func TestToCocoBounds(t *testing.T) {
	assert.Equal(t, [4]int{2, 3, 5, 7}, NewRect(Pt(2, 3), Pt(7, 10)).ToCocoBounds())
}

func TestToPostgresBox(t *testing.T) {
	assert.Equal(t, "(0.1,0.1),(0.2,0.2)", NewRect(Pt(1, 1), Pt(2, 2)).ToPostgresBox(Size{10, 10}))
	assert.Equal(t, "(0.25,0.25),(1,1)", NewRect(Pt(1, 1), Pt(5, 5)).ToPostgresBox(Size{4, 4}))
	assert.Equal(t, "(0,0),(0.5,0.5)", NewRect(Pt(-3, -3), Pt(2, 2)).ToPostgresBox(Size{4, 4}))
}

func TestFromCoco(t *testing.T) {
	assert.Equal(t, NewRect(Pt(3, 2), Pt(7, 8)), FromCoco(Pt(5, 5), Size{4, 6}))
}

func TestImageRectRoundTrip(t *testing.T) {
	r := NewRect(Pt(3, 2), Pt(7, 8))
	assert.Equal(t, r, FromImageRect(r.ImageRect()))
}

func BenchmarkDistance(b *testing.B) {
	r1 := NewRect(Pt(1, 1), Pt(4, 4))
	r2 := NewRect(Pt(5, 3), Pt(7, 4))
	for i := 0; i < b.N; i++ {
		r1.Distance(r2)
	}
}
