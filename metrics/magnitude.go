package metrics

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-planar
// unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// MagnitudeImage fills dst with the elementwise modulus of src. The
// planar intermediate is pooled, so repeated per-slice calls do not
// allocate.
func MagnitudeImage(dst []float64, src []complex64) error {
	if err := validatePair(len(dst), len(src)); err != nil {
		return err
	}
	re, im, buf := getScratch(len(src))
	defer putScratch(buf)
	unpack(re, im, src)
	vecmath.Magnitude(dst, re, im)
	return nil
}

// PowerImage fills dst with the elementwise squared modulus of src.
func PowerImage(dst []float64, src []complex64) error {
	if err := validatePair(len(dst), len(src)); err != nil {
		return err
	}
	re, im, buf := getScratch(len(src))
	defer putScratch(buf)
	unpack(re, im, src)
	vecmath.Power(dst, re, im)
	return nil
}

func unpack(re, im []float64, src []complex64) {
	for i, v := range src {
		re[i] = float64(real(v))
		im[i] = float64(imag(v))
	}
}
