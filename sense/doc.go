// Package sense provides multicoil encode and decode operators for
// parallel MRI.
//
// Encode maps a complex image through per-coil sensitivity weighting and
// a centered orthonormal 2-D FFT into coil k-space, optionally zeroing
// unsampled locations. Decode is the exact adjoint: per-coil inverse
// transforms combined with conjugate sensitivity weighting. When the
// sensitivity maps have unit quadrature sum at every pixel, Decode is
// also the left inverse of Encode on fully sampled data.
package sense
