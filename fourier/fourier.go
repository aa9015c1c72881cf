// Package fourier provides centered, orthonormal 2-D Fourier transforms
// for row-major complex grids.
//
// The forward transform maps an image to k-space with the zero-frequency
// bin at the grid center: it applies InverseShift, a 2-D FFT, and Shift.
// The inverse transform mirrors this exactly, so Forward followed by
// Inverse reproduces the input. Both directions scale by 1/sqrt(nx*ny),
// making the pair unitary.
package fourier

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// Plan2D caches row and column FFT plans plus scratch for a fixed
// nx-by-ny grid. Element (x, y) lives at index x*ny+y. A plan is cheap
// to reuse and not safe for concurrent use; create one per goroutine.
type Plan2D struct {
	nx, ny   int
	rowPlan  *algofft.Plan[complex64]
	colPlan  *algofft.Plan[complex64]
	scratch  []complex64
	scale    float32
	invScale float32
}

// NewPlan2D creates a transform plan for an nx-by-ny grid. Arbitrary
// positive dimensions are supported, not only powers of two.
func NewPlan2D(nx, ny int) (*Plan2D, error) {
	if err := validateDims(nx, ny); err != nil {
		return nil, err
	}
	rowPlan, err := algofft.NewPlan32(ny)
	if err != nil {
		return nil, fmt.Errorf("row plan (ny=%d): %w", ny, err)
	}
	colPlan, err := algofft.NewPlan32(nx)
	if err != nil {
		return nil, fmt.Errorf("column plan (nx=%d): %w", nx, err)
	}
	norm := math.Sqrt(float64(nx) * float64(ny))
	return &Plan2D{
		nx:       nx,
		ny:       ny,
		rowPlan:  rowPlan,
		colPlan:  colPlan,
		scratch:  make([]complex64, nx*ny),
		scale:    float32(1 / norm),
		invScale: float32(norm),
	}, nil
}

// Nx returns the number of rows the plan transforms.
func (p *Plan2D) Nx() int { return p.nx }

// Ny returns the number of columns the plan transforms.
func (p *Plan2D) Ny() int { return p.ny }

// Forward transforms a centered image into centered k-space.
// dst and src may be the same slice.
func (p *Plan2D) Forward(dst, src []complex64) error {
	if err := validateGridPair(dst, src, p.nx, p.ny); err != nil {
		return err
	}
	roll(p.scratch, src, p.nx, p.ny, p.nx/2, p.ny/2, 1)
	if err := p.transform(false); err != nil {
		return err
	}
	roll(dst, p.scratch, p.nx, p.ny, (p.nx+1)/2, (p.ny+1)/2, p.scale)
	return nil
}

// Inverse transforms centered k-space back into a centered image.
// dst and src may be the same slice.
func (p *Plan2D) Inverse(dst, src []complex64) error {
	if err := validateGridPair(dst, src, p.nx, p.ny); err != nil {
		return err
	}
	roll(p.scratch, src, p.nx, p.ny, (p.nx+1)/2, (p.ny+1)/2, 1)
	if err := p.transform(true); err != nil {
		return err
	}
	// The row and column passes each divide by their length, so the
	// net 1/(nx*ny) is lifted back to the orthonormal 1/sqrt(nx*ny).
	roll(dst, p.scratch, p.nx, p.ny, p.nx/2, p.ny/2, p.invScale)
	return nil
}

// transform runs the separable FFT passes over the scratch grid.
func (p *Plan2D) transform(inverse bool) error {
	for x := 0; x < p.nx; x++ {
		row := p.scratch[x*p.ny : (x+1)*p.ny]
		var err error
		if inverse {
			err = p.rowPlan.Inverse(row, row)
		} else {
			err = p.rowPlan.Forward(row, row)
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", x, err)
		}
	}
	for y := 0; y < p.ny; y++ {
		col := p.scratch[y:]
		if err := p.colPlan.TransformStrided(col, col, p.ny, inverse); err != nil {
			return fmt.Errorf("column %d: %w", y, err)
		}
	}
	return nil
}

// FFT2 is a one-shot forward transform for callers without a plan.
func FFT2(dst, src []complex64, nx, ny int) error {
	plan, err := NewPlan2D(nx, ny)
	if err != nil {
		return err
	}
	return plan.Forward(dst, src)
}

// IFFT2 is a one-shot inverse transform for callers without a plan.
func IFFT2(dst, src []complex64, nx, ny int) error {
	plan, err := NewPlan2D(nx, ny)
	if err != nil {
		return err
	}
	return plan.Inverse(dst, src)
}

// Shift rotates both axes by half their length so the zero-frequency
// bin moves to the grid center. dst and src may be the same slice.
func Shift(dst, src []complex64, nx, ny int) error {
	if err := validateGridPair(dst, src, nx, ny); err != nil {
		return err
	}
	roll(dst, src, nx, ny, (nx+1)/2, (ny+1)/2, 1)
	return nil
}

// InverseShift undoes Shift. For even dimensions the two coincide; for
// odd dimensions the half rotations differ by one bin. dst and src may
// be the same slice.
func InverseShift(dst, src []complex64, nx, ny int) error {
	if err := validateGridPair(dst, src, nx, ny); err != nil {
		return err
	}
	roll(dst, src, nx, ny, nx/2, ny/2, 1)
	return nil
}

// roll copies src into dst with a circular shift of (offX, offY) applied
// to the source indices, scaling every element. Full aliasing of dst and
// src is tolerated via a temporary copy; partial overlap is not.
func roll(dst, src []complex64, nx, ny, offX, offY int, scale float32) {
	if len(src) > 0 && &dst[0] == &src[0] && (offX%nx != 0 || offY%ny != 0) {
		tmp := make([]complex64, len(src))
		copy(tmp, src)
		src = tmp
	}
	factor := complex(scale, 0)
	for x := 0; x < nx; x++ {
		sx := x + offX
		if sx >= nx {
			sx -= nx
		}
		dstRow := dst[x*ny : (x+1)*ny]
		srcRow := src[sx*ny : (sx+1)*ny]
		for y := 0; y < ny; y++ {
			sy := y + offY
			if sy >= ny {
				sy -= ny
			}
			dstRow[y] = srcRow[sy] * factor
		}
	}
}
