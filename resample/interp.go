// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"math"

	"github.com/ik5/audpbx/utils"
)

// Interpolation selects how the polyphase-filtered point(s) around a
// fractional output-time index are combined into the final sample.
type Interpolation int

const (
	// Nearest evaluates a single sinc-filtered point at the rounded
	// phase; no further interpolation.
	Nearest Interpolation = iota
	// Linear evaluates two sinc-filtered points at adjacent phases and
	// linearly interpolates between them.
	Linear
	// Cubic evaluates four sinc-filtered points around the target and
	// fits a cubic through them. Best quality, four kernel evaluations
	// per output sample.
	Cubic
)

// String returns the interpolation mode's name.
func (i Interpolation) String() string {
	switch i {
	case Nearest:
		return "Nearest"
	case Linear:
		return "Linear"
	case Cubic:
		return "Cubic"
	default:
		return "Unknown"
	}
}

// pointsNeeded is how many polyphase-filtered points each mode
// evaluates per output sample.
func (i Interpolation) pointsNeeded() int {
	switch i {
	case Nearest:
		return 1
	case Linear:
		return 2
	case Cubic:
		return 4
	default:
		return 1
	}
}

// interpolatedSample evaluates the buffer at fractional time idx
// (already offset by the carry region) using the configured
// interpolation mode, and returns the combined output sample for one
// channel.
func interpolatedSample[T utils.Sample](interp Interpolation, buf []T, s *sincs[T], idx float64, factor int) T {
	switch interp {
	case Cubic:
		pts := nearestTimes4(idx, factor)
		var yvals [4]T
		for i, p := range pts {
			yvals[i] = sincInterpolated(buf, s, p.index, p.subindex)
		}
		frac := fractionalOffset[T](idx, factor)
		return utils.InterpCubic(frac, yvals)
	case Linear:
		pts := nearestTimes2(idx, factor)
		var yvals [2]T
		for i, p := range pts {
			yvals[i] = sincInterpolated(buf, s, p.index, p.subindex)
		}
		frac := fractionalOffset[T](idx, factor)
		return utils.InterpLinear(frac, yvals)
	default: // Nearest
		p := nearestTime(idx, factor)
		return sincInterpolated(buf, s, p.index, p.subindex)
	}
}

// fractionalOffset returns {idx*factor}, the fractional part of idx
// expressed in sub-phase units, used as the interpolator's x.
func fractionalOffset[T utils.Sample](idx float64, factor int) T {
	scaled := idx * float64(factor)
	frac := scaled - math.Floor(scaled)
	return T(frac)
}
