// Package mask generates retrospective k-space undersampling patterns.
//
// A mask selects phase-encode columns of an nx-by-ny k-space grid:
// uniform masks keep every accel-th column, random masks threshold a
// Gaussian-weighted noise field. Both variants always keep a centered
// autocalibration band and fully sampled edge bands so calibration and
// the outermost frequencies survive undersampling.
package mask

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a mask family.
type Type int

const (
	TypeUniform Type = iota
	TypeGaussianRandom
)

// Metadata describes a mask type.
type Metadata struct {
	Name       string
	Randomized bool
}

// Info returns metadata for a mask type.
func Info(typ Type) Metadata {
	switch typ {
	case TypeGaussianRandom:
		return Metadata{Name: "gaussian-random", Randomized: true}
	default:
		return Metadata{Name: "uniform", Randomized: false}
	}
}

// Option configures mask generation.
type Option func(*config)

type config struct {
	acsWidth  int
	edgeWidth int
	sigma     float64
	threshold float64
	holdout   [4]int
	rng       *rand.Rand
}

func defaultConfig() config {
	return config{
		acsWidth:  24,
		edgeWidth: 18,
		sigma:     0.5,
		threshold: 0.6,
		holdout:   [4]int{158, 162, 182, 186},
	}
}

// WithACSWidth configures the width of the fully sampled central
// autocalibration band.
func WithACSWidth(w int) Option {
	return func(c *config) {
		c.acsWidth = w
	}
}

// WithEdgeWidth configures how many columns at each grid edge stay
// fully sampled.
func WithEdgeWidth(w int) Option {
	return func(c *config) {
		c.edgeWidth = w
	}
}

// WithSigma configures the spread of the Gaussian acceptance prior used
// by random masks.
func WithSigma(sigma float64) Option {
	return func(c *config) {
		c.sigma = sigma
	}
}

// WithThreshold configures the acceptance threshold for random masks.
// Higher values reject more locations.
func WithThreshold(t float64) Option {
	return func(c *config) {
		c.threshold = t
	}
}

// WithHoldout configures the half-open region [x0,x1)x[y0,y1) forced to
// zero in random masks before the guaranteed columns are applied. The
// region is clamped to the grid; an empty region disables the holdout.
func WithHoldout(x0, x1, y0, y1 int) Option {
	return func(c *config) {
		c.holdout = [4]int{x0, x1, y0, y1}
	}
}

// WithRand configures the random source for random masks. The default
// is the shared math/rand source; pass a seeded source for reproducible
// masks.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

// Mask is a binary sampling pattern over an nx-by-ny k-space grid,
// stored row-major with one weight per location.
type Mask struct {
	nx, ny int
	data   []float64
}

// New generates a mask of the given type. It is a convenience dispatcher
// over Uniform and GaussianRandom.
func New(typ Type, nx, ny, accel int, opts ...Option) (*Mask, error) {
	switch typ {
	case TypeGaussianRandom:
		return GaussianRandom(nx, ny, accel, opts...)
	case TypeUniform:
		return Uniform(nx, ny, accel, opts...)
	default:
		return nil, errUnknownType
	}
}

// Uniform generates the deterministic mask: every accel-th column plus
// the edge bands and the centered autocalibration band.
func Uniform(nx, ny, accel int, opts ...Option) (*Mask, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate(nx, ny, accel, cfg); err != nil {
		return nil, err
	}
	m := &Mask{nx: nx, ny: ny, data: make([]float64, nx*ny)}
	m.forceColumns(accel, cfg)
	return m, nil
}

// GaussianRandom generates a randomized mask: a uniform noise field is
// weighted by a centered Gaussian prior and thresholded, the holdout
// region is zeroed, and the guaranteed columns of Uniform are applied
// last so they always survive.
func GaussianRandom(nx, ny, accel int, opts ...Option) (*Mask, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate(nx, ny, accel, cfg); err != nil {
		return nil, err
	}

	uniform := rand.Float64
	if cfg.rng != nil {
		uniform = cfg.rng.Float64
	}
	kernel, err := Kernel(nx, ny, cfg.sigma)
	if err != nil {
		return nil, err
	}

	field := make([]float64, nx*ny)
	for i := range field {
		field[i] = uniform()
	}
	vecmath.MulBlockInPlace(field, kernel)

	m := &Mask{nx: nx, ny: ny, data: make([]float64, nx*ny)}
	for i, w := range field {
		if w > cfg.threshold {
			m.data[i] = 1
		}
	}

	x0, x1 := clamp(cfg.holdout[0], 0, nx), clamp(cfg.holdout[1], 0, nx)
	y0, y1 := clamp(cfg.holdout[2], 0, ny), clamp(cfg.holdout[3], 0, ny)
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			m.data[x*ny+y] = 0
		}
	}

	m.forceColumns(accel, cfg)
	return m, nil
}

// forceColumns lights the stride, edge, and autocalibration columns
// across all rows.
func (m *Mask) forceColumns(accel int, cfg config) {
	lit := make([]bool, m.ny)
	for y := 0; y < m.ny; y += accel {
		lit[y] = true
	}
	edge := cfg.edgeWidth
	if edge > m.ny {
		edge = m.ny
	}
	for y := 0; y < edge; y++ {
		lit[y] = true
		lit[m.ny-1-y] = true
	}
	for y := (m.ny - cfg.acsWidth) / 2; y < (m.ny+cfg.acsWidth)/2; y++ {
		lit[y] = true
	}
	for y, on := range lit {
		if !on {
			continue
		}
		for x := 0; x < m.nx; x++ {
			m.data[x*m.ny+y] = 1
		}
	}
}

// Kernel returns the normalized Gaussian acceptance prior on an
// nx-by-ny grid: exp(-(u^2+v^2)/(2*sigma)) over [-1,1]x[-1,1] sample
// coordinates, scaled so its maximum is one.
func Kernel(nx, ny int, sigma float64) ([]float64, error) {
	if err := validateDims(nx, ny); err != nil {
		return nil, err
	}
	if err := validateSigma(sigma); err != nil {
		return nil, err
	}
	gx := axisKernel(nx, sigma)
	gy := axisKernel(ny, sigma)
	maxProd := maxOf(gx) * maxOf(gy)
	out := make([]float64, nx*ny)
	for x := 0; x < nx; x++ {
		row := out[x*ny : (x+1)*ny]
		for y := 0; y < ny; y++ {
			row[y] = gx[x] * gy[y] / maxProd
		}
	}
	return out, nil
}

// axisKernel evaluates the unnormalized prior along one axis over
// evenly spaced coordinates in [-1, 1].
func axisKernel(n int, sigma float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		u := -1.0
		if n > 1 {
			u = -1 + 2*float64(i)/float64(n-1)
		}
		out[i] = math.Exp(-u * u / (2 * sigma))
	}
	return out
}

// Nx returns the row count of the mask grid.
func (m *Mask) Nx() int { return m.nx }

// Ny returns the column count of the mask grid.
func (m *Mask) Ny() int { return m.ny }

// At reports whether location (x, y) is sampled.
func (m *Mask) At(x, y int) bool {
	return m.data[x*m.ny+y] != 0
}

// Data returns the underlying row-major weights (zeros and ones).
// Callers must not modify the returned slice.
func (m *Mask) Data() []float64 {
	return m.data
}

// Density returns the fraction of sampled locations.
func (m *Mask) Density() float64 {
	sum := 0.0
	for _, v := range m.data {
		sum += v
	}
	return sum / float64(len(m.data))
}

// Columns returns the indexes of fully sampled columns in ascending
// order.
func (m *Mask) Columns() []int {
	var cols []int
	for y := 0; y < m.ny; y++ {
		full := true
		for x := 0; x < m.nx; x++ {
			if m.data[x*m.ny+y] == 0 {
				full = false
				break
			}
		}
		if full {
			cols = append(cols, y)
		}
	}
	return cols
}

// Apply multiplies coil-interleaved k-space by the mask, broadcasting
// each location weight across nc coils. dst and src may be the same
// slice.
func (m *Mask) Apply(dst, src []complex64, nc int) error {
	if err := validateApply(dst, src, m.nx*m.ny, nc); err != nil {
		return err
	}
	for p, w := range m.data {
		factor := complex(float32(w), 0)
		base := p * nc
		for c := 0; c < nc; c++ {
			dst[base+c] = src[base+c] * factor
		}
	}
	return nil
}

// ApplyCoil multiplies a single k-space plane by the mask. dst and src
// may be the same slice.
func (m *Mask) ApplyCoil(dst, src []complex64) error {
	return m.Apply(dst, src, 1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxOf(values []float64) float64 {
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	return best
}
