package fourier_test

import (
	"fmt"

	"github.com/cwbudde/algo-mri/fourier"
)

func ExamplePlan2D_Forward() {
	plan, err := fourier.NewPlan2D(4, 4)
	if err != nil {
		panic(err)
	}

	// A unit impulse at the grid center spreads evenly over k-space.
	img := make([]complex64, 16)
	img[2*4+2] = 1

	kspace := make([]complex64, 16)
	if err := plan.Forward(kspace, img); err != nil {
		panic(err)
	}
	fmt.Printf("corner=%.2f center=%.2f\n", real(kspace[0]), real(kspace[2*4+2]))

	// Output:
	// corner=0.25 center=0.25
}

func ExampleShift() {
	src := []complex64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	dst := make([]complex64, len(src))
	if err := fourier.Shift(dst, src, 4, 4); err != nil {
		panic(err)
	}
	fmt.Printf("moved to (2,2): %v\n", real(dst[2*4+2]))

	// Output:
	// moved to (2,2): 1
}
