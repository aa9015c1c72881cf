// Package metrics provides reconstruction quality measures: NMSE, PSNR,
// a moment-based SSIM, and the self-supervised consistency loss used
// when training unrolled reconstruction networks.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SSIM stability constants, standard choices from the original SSIM
// publication.
const (
	DefaultK1 = 0.01
	DefaultK2 = 0.03
)

// NMSE returns the normalised mean squared error between two real
// images: sum((got-want)^2) / sum(want^2). A zero reference with a
// nonzero numerator yields +Inf; two identical zero images yield 0.
func NMSE(got, want []float64) (float64, error) {
	if err := validatePair(len(got), len(want)); err != nil {
		return 0, err
	}
	num, den := 0.0, 0.0
	for i := range got {
		d := got[i] - want[i]
		num += d * d
		den += want[i] * want[i]
	}
	return ratio(num, den), nil
}

// NMSEComplex is NMSE over complex images with squared moduli:
// sum(|got-want|^2) / sum(|want|^2).
func NMSEComplex(got, want []complex64) (float64, error) {
	if err := validatePair(len(got), len(want)); err != nil {
		return 0, err
	}
	num, den := 0.0, 0.0
	for i := range got {
		dr := float64(real(got[i])) - float64(real(want[i]))
		di := float64(imag(got[i])) - float64(imag(want[i]))
		num += dr*dr + di*di
		wr := float64(real(want[i]))
		wi := float64(imag(want[i]))
		den += wr*wr + wi*wi
	}
	return ratio(num, den), nil
}

// PSNR returns the peak signal-to-noise ratio in decibels. A peak of
// zero or below derives the peak from the reference maximum. Identical
// images yield +Inf.
func PSNR(got, want []float64, peak float64) (float64, error) {
	if err := validatePair(len(got), len(want)); err != nil {
		return 0, err
	}
	if peak <= 0 {
		for _, v := range want {
			if v > peak {
				peak = v
			}
		}
		if peak <= 0 {
			return 0, errNoPeak
		}
	}
	mse := 0.0
	for i := range got {
		d := got[i] - want[i]
		mse += d * d
	}
	mse /= float64(len(got))
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(peak*peak/mse), nil
}

// SSIM returns the structural similarity between two real images from
// global first and second moments. A dynamic range of zero or below
// derives the range from the reference extrema.
func SSIM(got, want []float64, dynamicRange float64) (float64, error) {
	if err := validatePair(len(got), len(want)); err != nil {
		return 0, err
	}
	if dynamicRange <= 0 {
		lo, hi := want[0], want[0]
		for _, v := range want[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		dynamicRange = hi - lo
		if dynamicRange <= 0 {
			return 0, errNoRange
		}
	}
	c1 := DefaultK1 * dynamicRange * DefaultK1 * dynamicRange
	c2 := DefaultK2 * dynamicRange * DefaultK2 * dynamicRange

	muX := stat.Mean(got, nil)
	muY := stat.Mean(want, nil)
	sigmaX := stat.Variance(got, nil)
	sigmaY := stat.Variance(want, nil)
	sigmaXY := stat.Covariance(got, want, nil)

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)
	return num / den, nil
}

// MOILoss returns the two-term consistency loss for self-supervised
// reconstruction training: the relative k-space error of the recon
// against the reference plus the relative image drift between two
// successive recon iterates. Each term is a ratio of Euclidean norms
// and follows the NMSE zero conventions.
func MOILoss(yRef, yRecon, xRecon, xReconNew []complex64) (float64, error) {
	if err := validatePair(len(yRef), len(yRecon)); err != nil {
		return 0, err
	}
	if err := validatePair(len(xRecon), len(xReconNew)); err != nil {
		return 0, err
	}
	return ratio(normDiff(yRecon, yRef), norm(yRef)) +
		ratio(normDiff(xReconNew, xRecon), norm(xRecon)), nil
}

// ratio applies the shared zero conventions: 0/0 is 0 and x/0 is +Inf
// for positive x.
func ratio(num, den float64) float64 {
	if den == 0 {
		if num == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return num / den
}

func norm(data []complex64) float64 {
	sum := 0.0
	for _, v := range data {
		re := float64(real(v))
		im := float64(imag(v))
		sum += re*re + im*im
	}
	return math.Sqrt(sum)
}

func normDiff(a, b []complex64) float64 {
	sum := 0.0
	for i := range a {
		re := float64(real(a[i])) - float64(real(b[i]))
		im := float64(imag(a[i])) - float64(imag(b[i]))
		sum += re*re + im*im
	}
	return math.Sqrt(sum)
}
