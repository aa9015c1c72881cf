package volume

import (
	"errors"
	"fmt"
)

var (
	errFortranOrder  = errors.New("fortran-order arrays are not supported")
	errEmptyArchive  = errors.New("archive has no members")
	errUnnamedMember = errors.New("member name must not be empty")
)

func validateDims(dims []int) error {
	if len(dims) == 0 {
		return errors.New("shape must have at least one dimension")
	}
	for i, d := range dims {
		if d <= 0 {
			return fmt.Errorf("dimension %d must be positive: %d", i, d)
		}
	}
	return nil
}
