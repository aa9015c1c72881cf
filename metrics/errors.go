package metrics

import (
	"errors"
	"fmt"
)

var (
	errNoPeak  = errors.New("reference has no positive peak")
	errNoRange = errors.New("reference has zero dynamic range")
)

func validatePair(got, want int) error {
	if got == 0 || want == 0 {
		return errors.New("images must not be empty")
	}
	if got != want {
		return fmt.Errorf("image lengths must match: %d vs %d", got, want)
	}
	return nil
}
