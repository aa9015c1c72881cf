package metrics_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mri/metrics"
)

func TestNMSEIdenticalImagesIsZero(t *testing.T) {
	img := []float64{0.3, 1.2, -0.5, 2}
	got, err := metrics.NMSE(img, img)
	if err != nil {
		t.Fatalf("NMSE: %v", err)
	}
	if got != 0 {
		t.Fatalf("NMSE(x,x): got %v, want 0", got)
	}

	cimg := []complex64{1 + 2i, -3i, 0.5}
	cgot, err := metrics.NMSEComplex(cimg, cimg)
	if err != nil {
		t.Fatalf("NMSEComplex: %v", err)
	}
	if cgot != 0 {
		t.Fatalf("NMSEComplex(x,x): got %v, want 0", cgot)
	}
}

func TestNMSEKnownValue(t *testing.T) {
	got, err := metrics.NMSE([]float64{2, 0}, []float64{1, 1})
	if err != nil {
		t.Fatalf("NMSE: %v", err)
	}
	if math.Abs(got-1) > 1e-15 {
		t.Fatalf("NMSE: got %v, want 1", got)
	}

	cgot, err := metrics.NMSEComplex([]complex64{1i, 0}, []complex64{0, 1})
	if err != nil {
		t.Fatalf("NMSEComplex: %v", err)
	}
	if math.Abs(cgot-2) > 1e-15 {
		t.Fatalf("NMSEComplex: got %v, want 2", cgot)
	}
}

func TestNMSEZeroReferenceConventions(t *testing.T) {
	zero := []float64{0, 0, 0}
	got, err := metrics.NMSE(zero, zero)
	if err != nil {
		t.Fatalf("NMSE: %v", err)
	}
	if got != 0 {
		t.Fatalf("NMSE(0,0): got %v, want 0", got)
	}

	inf, err := metrics.NMSE([]float64{1, 0, 0}, zero)
	if err != nil {
		t.Fatalf("NMSE: %v", err)
	}
	if !math.IsInf(inf, 1) {
		t.Fatalf("NMSE(x,0): got %v, want +Inf", inf)
	}
}

func TestPSNR(t *testing.T) {
	want := []float64{0.5, 0.5, 0.5, 0.5}
	got := []float64{0.6, 0.6, 0.6, 0.6}

	psnr, err := metrics.PSNR(got, want, 0)
	if err != nil {
		t.Fatalf("PSNR: %v", err)
	}
	expected := 10 * math.Log10(0.25/0.010000000000000002)
	if math.Abs(psnr-expected) > 1e-9 {
		t.Fatalf("PSNR: got %v, want %v", psnr, expected)
	}

	withPeak, err := metrics.PSNR(got, want, 1)
	if err != nil {
		t.Fatalf("PSNR: %v", err)
	}
	if withPeak <= psnr {
		t.Fatalf("larger peak must raise PSNR: %v <= %v", withPeak, psnr)
	}

	ident, err := metrics.PSNR(want, want, 0)
	if err != nil {
		t.Fatalf("PSNR: %v", err)
	}
	if !math.IsInf(ident, 1) {
		t.Fatalf("PSNR(x,x): got %v, want +Inf", ident)
	}

	if _, err := metrics.PSNR(got, []float64{0, 0, 0, 0}, 0); err == nil {
		t.Fatal("expected error for zero reference without explicit peak")
	}
}

func TestSSIM(t *testing.T) {
	img := make([]float64, 64)
	for i := range img {
		img[i] = 0.2 + 0.6*float64(i%9)/8
	}

	ident, err := metrics.SSIM(img, img, 0)
	if err != nil {
		t.Fatalf("SSIM: %v", err)
	}
	if math.Abs(ident-1) > 1e-12 {
		t.Fatalf("SSIM(x,x): got %v, want 1", ident)
	}

	noisy := make([]float64, len(img))
	for i := range noisy {
		noisy[i] = img[i]
		if i%2 == 0 {
			noisy[i] += 0.15
		} else {
			noisy[i] -= 0.15
		}
	}
	degraded, err := metrics.SSIM(noisy, img, 0)
	if err != nil {
		t.Fatalf("SSIM: %v", err)
	}
	if degraded >= ident {
		t.Fatalf("noise must lower SSIM: %v >= %v", degraded, ident)
	}

	if _, err := metrics.SSIM(img, make([]float64, len(img)), 0); err == nil {
		t.Fatal("expected error for flat reference without explicit range")
	}
}

func TestMOILoss(t *testing.T) {
	yRef := []complex64{1, 2i, -1}
	xRecon := []complex64{3, 4i}

	zero, err := metrics.MOILoss(yRef, yRef, xRecon, xRecon)
	if err != nil {
		t.Fatalf("MOILoss: %v", err)
	}
	if zero != 0 {
		t.Fatalf("consistent loss: got %v, want 0", zero)
	}

	// First term alone: ||yRef - 0|| / ||yRef|| = 1.
	loss, err := metrics.MOILoss(yRef, []complex64{0, 0, 0}, xRecon, xRecon)
	if err != nil {
		t.Fatalf("MOILoss: %v", err)
	}
	if math.Abs(loss-1) > 1e-7 {
		t.Fatalf("loss: got %v, want 1", loss)
	}

	// Both terms contribute.
	both, err := metrics.MOILoss(yRef, []complex64{0, 0, 0}, xRecon, []complex64{0, 0})
	if err != nil {
		t.Fatalf("MOILoss: %v", err)
	}
	if math.Abs(both-2) > 1e-7 {
		t.Fatalf("loss: got %v, want 2", both)
	}
}

func TestMagnitudeAndPowerImages(t *testing.T) {
	src := []complex64{3 + 4i, -5, 2i, 0}
	mag := make([]float64, len(src))
	if err := metrics.MagnitudeImage(mag, src); err != nil {
		t.Fatalf("MagnitudeImage: %v", err)
	}
	wantMag := []float64{5, 5, 2, 0}
	for i := range mag {
		if math.Abs(mag[i]-wantMag[i]) > 1e-12 {
			t.Fatalf("magnitude %d: got %v, want %v", i, mag[i], wantMag[i])
		}
	}

	pow := make([]float64, len(src))
	if err := metrics.PowerImage(pow, src); err != nil {
		t.Fatalf("PowerImage: %v", err)
	}
	wantPow := []float64{25, 25, 4, 0}
	for i := range pow {
		if math.Abs(pow[i]-wantPow[i]) > 1e-12 {
			t.Fatalf("power %d: got %v, want %v", i, pow[i], wantPow[i])
		}
	}
}

func TestValidation(t *testing.T) {
	if _, err := metrics.NMSE([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
	if _, err := metrics.NMSE(nil, nil); err == nil {
		t.Fatal("expected error for empty images")
	}
	if _, err := metrics.NMSEComplex([]complex64{1}, []complex64{1, 2}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
	if _, err := metrics.PSNR([]float64{1}, []float64{1, 2}, 1); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
	if _, err := metrics.SSIM([]float64{1}, []float64{1, 2}, 1); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
	if _, err := metrics.MOILoss([]complex64{1}, []complex64{1, 2}, nil, nil); err == nil {
		t.Fatal("expected error for mismatched k-space pair")
	}
	if err := metrics.MagnitudeImage(make([]float64, 2), make([]complex64, 3)); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}
