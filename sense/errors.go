package sense

import (
	"errors"
	"fmt"
)

var errNilData = errors.New("data must not be nil")

func validateShape(nx, ny, nc int) error {
	if nx <= 0 || ny <= 0 {
		return fmt.Errorf("grid dimensions must be positive: %dx%d", nx, ny)
	}
	if nc <= 0 {
		return fmt.Errorf("coil count must be positive: %d", nc)
	}
	return nil
}

func validatePlane(data []complex64, nx, ny int) error {
	if data == nil {
		return errNilData
	}
	if len(data) != nx*ny {
		return fmt.Errorf("plane length must be %d for %dx%d: %d", nx*ny, nx, ny, len(data))
	}
	return nil
}

func validatePlaneWeights(weights []float64, nx, ny int) error {
	if weights == nil {
		return errNilData
	}
	if len(weights) != nx*ny {
		return fmt.Errorf("weight length must be %d for %dx%d: %d", nx*ny, nx, ny, len(weights))
	}
	return nil
}

func validateCoilData(data []complex64, nx, ny, nc int) error {
	if data == nil {
		return errNilData
	}
	if len(data) != nx*ny*nc {
		return fmt.Errorf("coil data length must be %d for %dx%dx%d: %d",
			nx*ny*nc, nx, ny, nc, len(data))
	}
	return nil
}
