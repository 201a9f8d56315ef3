package multiview

import (
	"fmt"
	"math"

	"github.com/gogpu/multiview/layout"
)

// DefaultDevicePixelRatio is assumed when the host cannot report one.
const DefaultDevicePixelRatio = 2

// DPR is a device pixel ratio policy: a fixed value or a [min, max] range
// that follows the device ratio. The zero DPR is unset; views with an
// unset policy use the surface policy.
type DPR struct {
	min, max float64
	set      bool
}

// FixedDPR renders at v regardless of the device ratio.
func FixedDPR(v float64) DPR {
	return DPR{min: v, max: v, set: true}
}

// RangeDPR follows the device ratio, clamped to [min, max].
func RangeDPR(min, max float64) DPR {
	if min > max {
		min, max = max, min
	}
	return DPR{min: min, max: max, set: true}
}

// DPRFromLayout converts a layout document ratio. An unset ratio gives
// the zero DPR.
func DPRFromLayout(r layout.Ratio) DPR {
	if !r.Set {
		return DPR{}
	}
	if r.Fixed() {
		return FixedDPR(r.Min)
	}
	return RangeDPR(r.Min, r.Max)
}

// IsZero reports whether the policy is unset.
func (d DPR) IsZero() bool {
	return !d.set
}

// Fixed reports whether the policy is a single value.
func (d DPR) Fixed() bool {
	return d.set && d.min == d.max
}

// Bounds returns the policy range. Both values are equal for a fixed DPR.
func (d DPR) Bounds() (min, max float64) {
	return d.min, d.max
}

// Resolve returns the effective ratio for the given device ratio and
// performance scalar. A fixed policy gives v*performance, a range gives
// clamp(device, min, max)*performance. A device ratio <= 0 means the host
// could not detect it and DefaultDevicePixelRatio is used. A performance
// scalar <= 0 counts as 1.
func (d DPR) Resolve(device, performance float64) float64 {
	if device <= 0 {
		device = DefaultDevicePixelRatio
	}
	if performance <= 0 {
		performance = 1
	}
	if !d.set {
		return device * performance
	}
	return math.Min(math.Max(device, d.min), d.max) * performance
}

// String implements fmt.Stringer.
func (d DPR) String() string {
	switch {
	case !d.set:
		return "auto"
	case d.Fixed():
		return fmt.Sprintf("%g", d.min)
	default:
		return fmt.Sprintf("[%g, %g]", d.min, d.max)
	}
}
