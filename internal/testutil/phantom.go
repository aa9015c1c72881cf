package testutil

import (
	"math"
	"math/rand"
)

// Phantom generates a deterministic smooth complex image of size nx-by-ny
// in row-major order (element (x, y) at index x*ny+y). The magnitude is a
// sum of Gaussian blobs and the phase a gentle linear ramp, so the image
// is well concentrated in frequency space.
func Phantom(nx, ny int) []complex64 {
	type blob struct {
		cx, cy, sigma, amp float64
	}
	blobs := []blob{
		{0.5, 0.5, 0.22, 1.0},
		{0.3, 0.62, 0.10, 0.6},
		{0.68, 0.4, 0.08, 0.45},
	}
	out := make([]complex64, nx*ny)
	for x := 0; x < nx; x++ {
		fx := float64(x) / float64(nx)
		for y := 0; y < ny; y++ {
			fy := float64(y) / float64(ny)
			mag := 0.0
			for _, b := range blobs {
				dx := fx - b.cx
				dy := fy - b.cy
				mag += b.amp * math.Exp(-(dx*dx+dy*dy)/(2*b.sigma*b.sigma))
			}
			phase := 0.7*fx + 0.4*fy
			out[x*ny+y] = complex(float32(mag*math.Cos(phase)), float32(mag*math.Sin(phase)))
		}
	}
	return out
}

// OrthonormalSens generates nc deterministic coil sensitivity maps of size
// nx-by-ny, coil-interleaved in row-major order (element (x, y, c) at index
// (x*ny+y)*nc+c), normalized so that the coil magnitudes at every pixel
// sum in quadrature to one.
func OrthonormalSens(nx, ny, nc int) []complex64 {
	out := make([]complex64, nx*ny*nc)
	raw := make([]complex128, nc)
	for x := 0; x < nx; x++ {
		fx := float64(x) / float64(nx)
		for y := 0; y < ny; y++ {
			fy := float64(y) / float64(ny)
			sum := 0.0
			for c := 0; c < nc; c++ {
				angle := 2 * math.Pi * float64(c) / float64(nc)
				cx := 0.5 + 0.45*math.Cos(angle)
				cy := 0.5 + 0.45*math.Sin(angle)
				dx := fx - cx
				dy := fy - cy
				mag := 0.1 + math.Exp(-(dx*dx+dy*dy)/0.18)
				phase := 0.5 * float64(c+1) * (fx - fy)
				raw[c] = complex(mag*math.Cos(phase), mag*math.Sin(phase))
				sum += mag * mag
			}
			norm := 1 / math.Sqrt(sum)
			for c := 0; c < nc; c++ {
				v := raw[c] * complex(norm, 0)
				out[(x*ny+y)*nc+c] = complex64(v)
			}
		}
	}
	return out
}

// ComplexNoise generates complex white noise with a fixed seed for
// reproducibility. Real and imaginary parts are uniform in
// [-amplitude, amplitude).
func ComplexNoise(seed int64, amplitude float64, length int) []complex64 {
	out := make([]complex64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		re := (rng.Float64()*2 - 1) * amplitude
		im := (rng.Float64()*2 - 1) * amplitude
		out[i] = complex(float32(re), float32(im))
	}
	return out
}

// ComplexImpulse generates a unit impulse at the given position.
func ComplexImpulse(length, pos int) []complex64 {
	out := make([]complex64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// ComplexDC generates a constant-valued complex signal.
func ComplexDC(value complex64, length int) []complex64 {
	out := make([]complex64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
