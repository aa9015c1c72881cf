package dataset

import "fmt"

// TwoChannel splits a complex plane into the channel-first two-channel
// float32 layout networks consume: the full real plane followed by the
// full imaginary plane. dst must hold 2*len(src) elements.
func TwoChannel(dst []float32, src []complex64) error {
	if len(dst) != 2*len(src) {
		return fmt.Errorf("two-channel dst length must be %d: %d", 2*len(src), len(dst))
	}
	n := len(src)
	for i, v := range src {
		dst[i] = real(v)
		dst[n+i] = imag(v)
	}
	return nil
}

// FromTwoChannel rebuilds a complex plane from the channel-first
// two-channel layout. src must hold 2*len(dst) elements.
func FromTwoChannel(dst []complex64, src []float32) error {
	if len(src) != 2*len(dst) {
		return fmt.Errorf("two-channel src length must be %d: %d", 2*len(dst), len(src))
	}
	n := len(dst)
	for i := range dst {
		dst[i] = complex(src[i], src[n+i])
	}
	return nil
}
