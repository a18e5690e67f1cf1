package ring

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidConfig is the root of every configuration rejection.
	ErrInvalidConfig = errors.New("ring: invalid configuration")

	// ErrIndivisibleTarget rejects a target that does not split evenly across
	// the units under RemainderReject.
	ErrIndivisibleTarget = fmt.Errorf("%w: target not divisible by unit count", ErrInvalidConfig)

	// ErrWorkloadCorruption marks a checksum mismatch. It is never retried.
	ErrWorkloadCorruption = errors.New("ring: workload corruption")

	// ErrRunTimeout is returned when the run deadline expires first.
	ErrRunTimeout = errors.New("ring: run timed out")

	// ErrRunCanceled is returned when the caller's context is canceled.
	ErrRunCanceled = errors.New("ring: run canceled")

	// ErrUnitExited is returned when a unit goroutine dies abnormally.
	ErrUnitExited = errors.New("ring: unit exited abnormally")

	ErrAlreadyStarted = errors.New("ring: already started")
	ErrNotStarted     = errors.New("ring: not started")
)

// CorruptionError reports the unit and cycle whose data block no longer
// matched its checksum.
type CorruptionError struct {
	Unit  int
	Cycle int
	Want  int64
	Got   int64
}

func (e *CorruptionError) Error() string {
	return "ring: workload corruption in unit " + strconv.Itoa(e.Unit) +
		" at cycle " + strconv.Itoa(e.Cycle) +
		": checksum " + strconv.FormatInt(e.Got, 10) +
		", want " + strconv.FormatInt(e.Want, 10)
}

// Unwrap lets errors.Is match ErrWorkloadCorruption.
func (e *CorruptionError) Unwrap() error {
	return ErrWorkloadCorruption
}
