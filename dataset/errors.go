package dataset

import (
	"errors"
	"fmt"
)

var errZeroSlice = errors.New("slice k-space is all zero")

func validateConfig(cfg Config) error {
	if cfg.KSpacePath == "" {
		return errors.New("k-space path must not be empty")
	}
	if cfg.SensPath == "" {
		return errors.New("sensitivity path must not be empty")
	}
	if cfg.Accel < 1 {
		return fmt.Errorf("acceleration must be >= 1: %d", cfg.Accel)
	}
	if cfg.Start < 0 {
		return fmt.Errorf("start slice must be >= 0: %d", cfg.Start)
	}
	if cfg.ACSWidth < 0 {
		return fmt.Errorf("autocalibration width must be >= 0: %d", cfg.ACSWidth)
	}
	if cfg.EdgeWidth < 0 {
		return fmt.Errorf("edge width must be >= 0: %d", cfg.EdgeWidth)
	}
	return nil
}

func requireSameDims(ksp, sens []int) error {
	match := len(ksp) == len(sens)
	if match {
		for i := range ksp {
			if ksp[i] != sens[i] {
				match = false
				break
			}
		}
	}
	if !match {
		return fmt.Errorf("k-space and sensitivity shapes must match: %v vs %v", ksp, sens)
	}
	return nil
}
