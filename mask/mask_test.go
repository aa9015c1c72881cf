package mask

import (
	"math"
	"math/rand"
	"testing"
)

// litColumns reproduces the guaranteed-column rule with plain loops.
func litColumns(ny, accel, acs, edge int) map[int]bool {
	lit := make(map[int]bool)
	for y := 0; y < ny; y += accel {
		lit[y] = true
	}
	for y := 0; y < edge && y < ny; y++ {
		lit[y] = true
		lit[ny-1-y] = true
	}
	for y := (ny - acs) / 2; y < (ny+acs)/2; y++ {
		lit[y] = true
	}
	return lit
}

func TestUniformKeepsExactlyGuaranteedColumns(t *testing.T) {
	const nx, ny, accel = 10, 32, 4
	m, err := Uniform(nx, ny, accel, WithACSWidth(8), WithEdgeWidth(2))
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	want := litColumns(ny, accel, 8, 2)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			got := m.At(x, y)
			if got != want[y] {
				t.Fatalf("cell (%d,%d): got %v, want %v", x, y, got, want[y])
			}
		}
	}

	cols := m.Columns()
	if len(cols) != len(want) {
		t.Fatalf("Columns: got %d, want %d", len(cols), len(want))
	}
	for _, y := range cols {
		if !want[y] {
			t.Fatalf("unexpected full column %d", y)
		}
	}
}

func TestUniformDefaultWidths(t *testing.T) {
	const nx, ny, accel = 320, 368, 8
	m, err := Uniform(nx, ny, accel)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	want := litColumns(ny, accel, 24, 18)
	if got := len(m.Columns()); got != len(want) {
		t.Fatalf("full columns: got %d, want %d", got, len(want))
	}
	wantDensity := float64(len(want)) / float64(ny)
	if math.Abs(m.Density()-wantDensity) > 1e-12 {
		t.Fatalf("density: got %v, want %v", m.Density(), wantDensity)
	}
}

func TestGaussianRandomKeepsGuaranteedColumns(t *testing.T) {
	const nx, ny, accel = 64, 96, 6
	rng := rand.New(rand.NewSource(1))
	m, err := GaussianRandom(nx, ny, accel,
		WithACSWidth(12), WithEdgeWidth(4), WithRand(rng))
	if err != nil {
		t.Fatalf("GaussianRandom: %v", err)
	}
	for y := range litColumns(ny, accel, 12, 4) {
		for x := 0; x < nx; x++ {
			if !m.At(x, y) {
				t.Fatalf("guaranteed column %d broken at row %d", y, x)
			}
		}
	}
}

func TestGaussianRandomHoldoutOutsideGuaranteedColumns(t *testing.T) {
	// A huge sigma flattens the prior, so roughly half of all free
	// cells pass the threshold. The holdout block must still come out
	// dark wherever no guaranteed column crosses it, and guaranteed
	// columns must survive because they are forced after the cut.
	const nx, ny, accel = 16, 20, 7
	rng := rand.New(rand.NewSource(3))
	m, err := GaussianRandom(nx, ny, accel,
		WithACSWidth(0), WithEdgeWidth(0), WithSigma(1e6), WithThreshold(0.5),
		WithHoldout(0, 4, 2, 6), WithRand(rng))
	if err != nil {
		t.Fatalf("GaussianRandom: %v", err)
	}
	litOutside := 0
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			inHoldout := x < 4 && y >= 2 && y < 6
			guaranteed := y%accel == 0
			switch {
			case guaranteed:
				if !m.At(x, y) {
					t.Fatalf("guaranteed column %d broken at row %d", y, x)
				}
			case inHoldout:
				if m.At(x, y) {
					t.Fatalf("holdout cell (%d,%d) sampled", x, y)
				}
			case m.At(x, y):
				litOutside++
			}
		}
	}
	if litOutside == 0 {
		t.Fatal("random field lit no cells outside the guarantees")
	}
}

func TestGaussianRandomHoldoutClampedToGrid(t *testing.T) {
	const nx, ny = 16, 20
	rng := rand.New(rand.NewSource(9))
	// Default holdout region lies far outside this grid.
	if _, err := GaussianRandom(nx, ny, 4, WithRand(rng)); err != nil {
		t.Fatalf("GaussianRandom: %v", err)
	}
}

func TestGaussianRandomReproducible(t *testing.T) {
	const nx, ny, accel = 32, 48, 4
	gen := func(seed int64) *Mask {
		m, err := GaussianRandom(nx, ny, accel,
			WithACSWidth(4), WithEdgeWidth(2), WithRand(rand.New(rand.NewSource(seed))))
		if err != nil {
			t.Fatalf("GaussianRandom: %v", err)
		}
		return m
	}
	a, b := gen(42), gen(42)
	for i := range a.data {
		if a.data[i] != b.data[i] {
			t.Fatalf("masks with equal seeds differ at %d", i)
		}
	}
	c := gen(43)
	same := true
	for i := range a.data {
		if a.data[i] != c.data[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("masks with different seeds are identical")
	}
}

func TestKernelNormalizedAndSymmetric(t *testing.T) {
	for _, dims := range [][2]int{{9, 9}, {8, 8}, {7, 10}} {
		nx, ny := dims[0], dims[1]
		k, err := Kernel(nx, ny, 0.5)
		if err != nil {
			t.Fatalf("Kernel: %v", err)
		}
		maxVal := 0.0
		for _, v := range k {
			if v <= 0 || v > 1+1e-12 {
				t.Fatalf("kernel value out of (0,1]: %v", v)
			}
			if v > maxVal {
				maxVal = v
			}
		}
		if math.Abs(maxVal-1) > 1e-12 {
			t.Fatalf("kernel max: got %v, want 1", maxVal)
		}
		for x := 0; x < nx; x++ {
			for y := 0; y < ny; y++ {
				mirror := k[(nx-1-x)*ny+(ny-1-y)]
				if math.Abs(k[x*ny+y]-mirror) > 1e-12 {
					t.Fatalf("kernel not symmetric at (%d,%d)", x, y)
				}
			}
		}
	}
}

func TestKernelCenterPeakOddGrid(t *testing.T) {
	k, err := Kernel(9, 9, 0.5)
	if err != nil {
		t.Fatalf("Kernel: %v", err)
	}
	if k[4*9+4] != 1 {
		t.Fatalf("center value: got %v, want 1", k[4*9+4])
	}
	if k[4*9+3] >= k[4*9+4] || k[4*9+2] >= k[4*9+3] {
		t.Fatal("kernel does not decrease away from center")
	}
}

func TestApplyBroadcastsAcrossCoils(t *testing.T) {
	const nx, ny, nc = 4, 6, 2
	m, err := Uniform(nx, ny, 3, WithACSWidth(0), WithEdgeWidth(0))
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	src := make([]complex64, nx*ny*nc)
	for i := range src {
		src[i] = complex(float32(i+1), -float32(i))
	}
	dst := make([]complex64, len(src))
	if err := m.Apply(dst, src, nc); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for p := 0; p < nx*ny; p++ {
		for c := 0; c < nc; c++ {
			want := complex64(0)
			if m.data[p] != 0 {
				want = src[p*nc+c]
			}
			if dst[p*nc+c] != want {
				t.Fatalf("element (%d,%d): got %v, want %v", p, c, dst[p*nc+c], want)
			}
		}
	}

	// In-place application matches.
	buf := make([]complex64, len(src))
	copy(buf, src)
	if err := m.Apply(buf, buf, nc); err != nil {
		t.Fatalf("Apply in place: %v", err)
	}
	for i := range buf {
		if buf[i] != dst[i] {
			t.Fatalf("in-place mismatch at %d", i)
		}
	}
}

func TestApplyCoilMatchesSingleCoilApply(t *testing.T) {
	const nx, ny = 4, 6
	m, err := Uniform(nx, ny, 3, WithACSWidth(0), WithEdgeWidth(0))
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	src := make([]complex64, nx*ny)
	for i := range src {
		src[i] = complex(float32(i+1), float32(i))
	}
	got := make([]complex64, len(src))
	if err := m.ApplyCoil(got, src); err != nil {
		t.Fatalf("ApplyCoil: %v", err)
	}
	want := make([]complex64, len(src))
	if err := m.Apply(want, src, 1); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if err := m.ApplyCoil(got, src[:3]); err == nil {
		t.Fatal("expected error for short plane")
	}
}

func TestNewDispatchesByType(t *testing.T) {
	a, err := New(TypeUniform, 6, 8, 2, WithACSWidth(2), WithEdgeWidth(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := Uniform(6, 8, 2, WithACSWidth(2), WithEdgeWidth(1))
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			t.Fatalf("dispatch mismatch at %d", i)
		}
	}
	if _, err := New(Type(99), 6, 8, 2); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		run  func() error
	}{
		{"zero nx", func() error { _, err := Uniform(0, 8, 2); return err }},
		{"zero accel", func() error { _, err := Uniform(8, 8, 0); return err }},
		{"acs wider than grid", func() error { _, err := Uniform(8, 8, 2, WithACSWidth(9)); return err }},
		{"negative acs", func() error { _, err := Uniform(8, 8, 2, WithACSWidth(-1)); return err }},
		{"negative edge", func() error { _, err := Uniform(8, 8, 2, WithEdgeWidth(-1)); return err }},
		{"zero sigma", func() error { _, err := GaussianRandom(8, 8, 2, WithSigma(0)); return err }},
		{"negative threshold", func() error { _, err := GaussianRandom(8, 8, 2, WithThreshold(-0.1)); return err }},
		{"threshold at one", func() error { _, err := GaussianRandom(8, 8, 2, WithThreshold(1)); return err }},
		{"kernel zero dims", func() error { _, err := Kernel(0, 4, 0.5); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.run() == nil {
				t.Fatal("expected error")
			}
		})
	}

	m, err := Uniform(4, 4, 2)
	if err != nil {
		t.Fatalf("Uniform: %v", err)
	}
	good := make([]complex64, 4*4*2)
	if err := m.Apply(good, good[:5], 2); err == nil {
		t.Fatal("expected error for short src")
	}
	if err := m.Apply(good, good, 0); err == nil {
		t.Fatal("expected error for zero coils")
	}
	if err := m.Apply(nil, good, 2); err == nil {
		t.Fatal("expected error for nil dst")
	}
}

func TestInfo(t *testing.T) {
	if Info(TypeUniform).Randomized {
		t.Fatal("uniform reported as randomized")
	}
	meta := Info(TypeGaussianRandom)
	if !meta.Randomized || meta.Name != "gaussian-random" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}
