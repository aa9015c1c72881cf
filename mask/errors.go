package mask

import (
	"errors"
	"fmt"
)

var (
	errUnknownType = errors.New("unknown mask type")
	errNilData     = errors.New("data must not be nil")
)

func validateDims(nx, ny int) error {
	if nx <= 0 || ny <= 0 {
		return fmt.Errorf("grid dimensions must be positive: %dx%d", nx, ny)
	}
	return nil
}

func validateSigma(sigma float64) error {
	if sigma <= 0 {
		return fmt.Errorf("sigma must be > 0: %f", sigma)
	}
	return nil
}

func validate(nx, ny, accel int, cfg config) error {
	if err := validateDims(nx, ny); err != nil {
		return err
	}
	if accel < 1 {
		return fmt.Errorf("acceleration must be >= 1: %d", accel)
	}
	if cfg.acsWidth < 0 || cfg.acsWidth > ny {
		return fmt.Errorf("autocalibration width must be in [0,%d]: %d", ny, cfg.acsWidth)
	}
	if cfg.edgeWidth < 0 {
		return fmt.Errorf("edge width must be >= 0: %d", cfg.edgeWidth)
	}
	if err := validateSigma(cfg.sigma); err != nil {
		return err
	}
	if cfg.threshold < 0 || cfg.threshold >= 1 {
		return fmt.Errorf("threshold must be in [0,1): %f", cfg.threshold)
	}
	return nil
}

func validateApply(dst, src []complex64, locations, nc int) error {
	if dst == nil || src == nil {
		return errNilData
	}
	if nc < 1 {
		return fmt.Errorf("coil count must be >= 1: %d", nc)
	}
	want := locations * nc
	if len(dst) != want || len(src) != want {
		return fmt.Errorf("coil data length must be %d: dst %d, src %d", want, len(dst), len(src))
	}
	return nil
}
