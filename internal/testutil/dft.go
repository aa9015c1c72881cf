package testutil

import "math"

// DFT2Centered computes a centered orthonormal 2-D discrete Fourier
// transform of an nx-by-ny row-major grid by direct summation. Both
// directions scale by 1/sqrt(nx*ny); inverse flips the exponent sign.
// It is quadratic per axis and meant as a reference for small grids.
//
// Forward is fftshift(DFT(ifftshift(src))), inverse is the mirror
// ifftshift(IDFT(fftshift(src))), matching the usual centered k-space
// convention.
func DFT2Centered(src []complex64, nx, ny int, inverse bool) []complex64 {
	in := make([]complex128, nx*ny)
	preX, preY := shiftAmount(nx, !inverse), shiftAmount(ny, !inverse)
	for x := 0; x < nx; x++ {
		sx := (x + preX) % nx
		for y := 0; y < ny; y++ {
			sy := (y + preY) % ny
			in[x*ny+y] = complex128(src[sx*ny+sy])
		}
	}

	sign := -2 * math.Pi
	if inverse {
		sign = 2 * math.Pi
	}
	freq := make([]complex128, nx*ny)
	for u := 0; u < nx; u++ {
		for v := 0; v < ny; v++ {
			var sum complex128
			for x := 0; x < nx; x++ {
				for y := 0; y < ny; y++ {
					arg := sign * (float64(u*x)/float64(nx) + float64(v*y)/float64(ny))
					w := complex(math.Cos(arg), math.Sin(arg))
					sum += in[x*ny+y] * w
				}
			}
			freq[u*ny+v] = sum
		}
	}

	scale := 1 / math.Sqrt(float64(nx*ny))
	out := make([]complex64, nx*ny)
	postX, postY := shiftAmount(nx, inverse), shiftAmount(ny, inverse)
	for u := 0; u < nx; u++ {
		su := (u + postX) % nx
		for v := 0; v < ny; v++ {
			sv := (v + postY) % ny
			out[u*ny+v] = complex64(freq[su*ny+sv] * complex(scale, 0))
		}
	}
	return out
}

// shiftAmount returns the per-axis source offset of a circular half
// rotation: n/2 for ifftshift, (n+1)/2 for fftshift. The two coincide
// for even n.
func shiftAmount(n int, inverseShift bool) int {
	if inverseShift {
		return n / 2
	}
	return (n + 1) / 2
}
