package ring

import (
	"fmt"
	"time"

	"batonring/baton"
	"batonring/constants"
)

// RemainderPolicy decides what happens when Target does not divide evenly
// across the units.
type RemainderPolicy uint8

const (
	// RemainderSpread gives one extra increment to each of units 0..r-1,
	// where r = Target mod Units. The final partial lap then still visits
	// units in ring order, and the total is exactly Target.
	RemainderSpread RemainderPolicy = iota

	// RemainderReject refuses an indivisible target at configuration time.
	RemainderReject
)

func (p RemainderPolicy) String() string {
	switch p {
	case RemainderSpread:
		return "spread"
	case RemainderReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseRemainderPolicy resolves "spread" or "reject".
func ParseRemainderPolicy(name string) (RemainderPolicy, error) {
	switch name {
	case "spread":
		return RemainderSpread, nil
	case "reject":
		return RemainderReject, nil
	}
	return 0, fmt.Errorf("%w: unknown remainder policy %q", ErrInvalidConfig, name)
}

// Config describes one ring run. A Config is consumed by Build and never
// retained after it; every run owns fresh state.
type Config struct {
	Units     int
	BlockSize int
	Target    int
	Signal    baton.Kind
	Remainder RemainderPolicy

	// Pin binds unit i's thread to CPU i mod NumCPU (Linux only).
	Pin bool

	// Timeout bounds Wait. Zero disables the deadline.
	Timeout time.Duration

	// Observer, when set, is called around every unit's critical step.
	Observer Observer
}

// Validate checks ranges and the remainder policy.
func (c *Config) Validate() error {
	switch {
	case c.Units < 1 || c.Units > constants.MaxUnits:
		return fmt.Errorf("%w: units %d outside [1, %d]", ErrInvalidConfig, c.Units, constants.MaxUnits)
	case c.BlockSize < 1 || c.BlockSize > constants.MaxBlockSize:
		return fmt.Errorf("%w: block size %d outside [1, %d]", ErrInvalidConfig, c.BlockSize, constants.MaxBlockSize)
	case c.Target < 1:
		return fmt.Errorf("%w: target %d must be positive", ErrInvalidConfig, c.Target)
	case c.Timeout < 0:
		return fmt.Errorf("%w: negative timeout %v", ErrInvalidConfig, c.Timeout)
	case c.Remainder != RemainderSpread && c.Remainder != RemainderReject:
		return fmt.Errorf("%w: unknown remainder policy %d", ErrInvalidConfig, c.Remainder)
	}
	if c.Remainder == RemainderReject && c.Target%c.Units != 0 {
		return fmt.Errorf("%w: target %d, units %d", ErrIndivisibleTarget, c.Target, c.Units)
	}
	return nil
}

// Budgets splits target across units according to policy.
// The result always sums to target and is non-increasing by index.
func Budgets(units, target int, policy RemainderPolicy) ([]int, error) {
	c := Config{Units: units, BlockSize: 1, Target: target, Remainder: policy}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	base, rem := target/units, target%units
	out := make([]int, units)
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out, nil
}
