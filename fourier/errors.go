package fourier

import (
	"errors"
	"fmt"
)

var errNilGrid = errors.New("grid must not be nil")

func validateDims(nx, ny int) error {
	if nx <= 0 || ny <= 0 {
		return fmt.Errorf("grid dimensions must be positive: %dx%d", nx, ny)
	}
	return nil
}

func validateGrid(data []complex64, nx, ny int) error {
	if data == nil {
		return errNilGrid
	}
	if len(data) != nx*ny {
		return fmt.Errorf("grid length must be %d for %dx%d: %d", nx*ny, nx, ny, len(data))
	}
	return nil
}

func validateGridPair(dst, src []complex64, nx, ny int) error {
	if err := validateDims(nx, ny); err != nil {
		return err
	}
	if err := validateGrid(dst, nx, ny); err != nil {
		return err
	}
	return validateGrid(src, nx, ny)
}
