package sense

import (
	"fmt"

	"github.com/cwbudde/algo-mri/fourier"
)

// Operator applies coil sensitivity encoding for a fixed grid and coil
// count. Images are row-major nx-by-ny planes (element (x, y) at index
// x*ny+y); coil data is coil-interleaved (element (x, y, c) at index
// (x*ny+y)*nc+c). An Operator is not safe for concurrent use; create
// one per goroutine.
type Operator struct {
	nx, ny, nc int
	sens       []complex64
	plan       *fourier.Plan2D
	plane      []complex64
}

// NewOperator creates an encode/decode operator from coil-interleaved
// sensitivity maps of size nx-by-ny-by-nc. The maps are copied, so the
// caller may reuse the slice.
func NewOperator(sens []complex64, nx, ny, nc int) (*Operator, error) {
	if err := validateShape(nx, ny, nc); err != nil {
		return nil, err
	}
	if err := validateCoilData(sens, nx, ny, nc); err != nil {
		return nil, fmt.Errorf("sensitivity maps: %w", err)
	}
	plan, err := fourier.NewPlan2D(nx, ny)
	if err != nil {
		return nil, err
	}
	op := &Operator{
		nx:    nx,
		ny:    ny,
		nc:    nc,
		sens:  make([]complex64, len(sens)),
		plan:  plan,
		plane: make([]complex64, nx*ny),
	}
	copy(op.sens, sens)
	return op, nil
}

// Nx returns the row count of the operator grid.
func (op *Operator) Nx() int { return op.nx }

// Ny returns the column count of the operator grid.
func (op *Operator) Ny() int { return op.ny }

// Coils returns the number of coils.
func (op *Operator) Coils() int { return op.nc }

// SetMaps replaces the sensitivity maps while keeping the plans and
// scratch, for walking a stack of slices with per-slice maps. The new
// maps must match the operator shape and are copied.
func (op *Operator) SetMaps(sens []complex64) error {
	if err := validateCoilData(sens, op.nx, op.ny, op.nc); err != nil {
		return fmt.Errorf("sensitivity maps: %w", err)
	}
	copy(op.sens, sens)
	return nil
}

// Encode transforms an image into fully sampled coil k-space: each coil
// plane is the centered orthonormal FFT of the sensitivity-weighted
// image. dst must hold nx*ny*nc elements and must not overlap img.
func (op *Operator) Encode(dst, img []complex64) error {
	return op.encode(dst, img, nil)
}

// EncodeMasked is Encode followed by pointwise multiplication with a
// sampling weight per k-space location, shared across coils. A weight of
// zero removes the sample; masks usually hold only zeros and ones.
func (op *Operator) EncodeMasked(dst, img []complex64, weights []float64) error {
	if err := validatePlaneWeights(weights, op.nx, op.ny); err != nil {
		return err
	}
	return op.encode(dst, img, weights)
}

func (op *Operator) encode(dst, img []complex64, weights []float64) error {
	if err := validateCoilData(dst, op.nx, op.ny, op.nc); err != nil {
		return fmt.Errorf("dst: %w", err)
	}
	if err := validatePlane(img, op.nx, op.ny); err != nil {
		return fmt.Errorf("img: %w", err)
	}
	n := op.nx * op.ny
	for c := 0; c < op.nc; c++ {
		for p := 0; p < n; p++ {
			op.plane[p] = img[p] * op.sens[p*op.nc+c]
		}
		if err := op.plan.Forward(op.plane, op.plane); err != nil {
			return fmt.Errorf("coil %d: %w", c, err)
		}
		if weights == nil {
			for p := 0; p < n; p++ {
				dst[p*op.nc+c] = op.plane[p]
			}
			continue
		}
		for p := 0; p < n; p++ {
			dst[p*op.nc+c] = op.plane[p] * complex(float32(weights[p]), 0)
		}
	}
	return nil
}

// Decode is the adjoint of Encode: it inverse-transforms each coil plane
// and combines them with conjugate sensitivity weighting. dst must hold
// nx*ny elements and must not overlap ksp. Decoding masked k-space
// yields the zero-filled reconstruction.
func (op *Operator) Decode(dst, ksp []complex64) error {
	if err := validatePlane(dst, op.nx, op.ny); err != nil {
		return fmt.Errorf("dst: %w", err)
	}
	if err := validateCoilData(ksp, op.nx, op.ny, op.nc); err != nil {
		return fmt.Errorf("ksp: %w", err)
	}
	n := op.nx * op.ny
	for p := 0; p < n; p++ {
		dst[p] = 0
	}
	for c := 0; c < op.nc; c++ {
		for p := 0; p < n; p++ {
			op.plane[p] = ksp[p*op.nc+c]
		}
		if err := op.plan.Inverse(op.plane, op.plane); err != nil {
			return fmt.Errorf("coil %d: %w", c, err)
		}
		for p := 0; p < n; p++ {
			s := op.sens[p*op.nc+c]
			dst[p] += op.plane[p] * complex(real(s), -imag(s))
		}
	}
	return nil
}

// Encode is a one-shot convenience that builds a transient operator.
// weights may be nil for fully sampled output. Use an Operator for
// repeated transforms on the same grid.
func Encode(dst, img, sens []complex64, weights []float64, nx, ny, nc int) error {
	op, err := NewOperator(sens, nx, ny, nc)
	if err != nil {
		return err
	}
	if weights == nil {
		return op.Encode(dst, img)
	}
	return op.EncodeMasked(dst, img, weights)
}

// Decode is a one-shot convenience that builds a transient operator.
// Use an Operator for repeated transforms on the same grid.
func Decode(dst, ksp, sens []complex64, nx, ny, nc int) error {
	op, err := NewOperator(sens, nx, ny, nc)
	if err != nil {
		return err
	}
	return op.Decode(dst, ksp)
}
