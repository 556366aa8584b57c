// SPDX-License-Identifier: EPL-2.0

package resample

import "math"

// timePoint is a (sample index, polyphase phase) pair. index may be
// negative, addressing the carry region of the streaming buffer;
// subindex is always in [0, factor).
type timePoint struct {
	index    int
	subindex int
}

// nearestTime rounds t to the single closest polyphase point.
func nearestTime(t float64, factor int) timePoint {
	index := int(math.Floor(t))
	frac := t - math.Floor(t)
	subindex := int(math.Round(frac * float64(factor)))
	if subindex >= factor {
		subindex -= factor
		index++
	}
	return timePoint{index, subindex}
}

// nearestTimes2 returns the two polyphase points bracketing t, used
// by the linear interpolator.
func nearestTimes2(t float64, factor int) [2]timePoint {
	index := int(math.Floor(t))
	subindex := int(math.Floor((t - math.Floor(t)) * float64(factor)))

	p0 := timePoint{index, subindex}
	subindex++
	if subindex >= factor {
		subindex -= factor
		index++
	}
	p1 := timePoint{index, subindex}

	return [2]timePoint{p0, p1}
}

// nearestTimes4 returns the four polyphase points at relative
// sub-index offsets {-1, 0, 1, 2} around t, used by the cubic
// interpolator.
func nearestTimes4(t float64, factor int) [4]timePoint {
	start := int(math.Floor(t))
	frac := int(math.Floor((t - math.Floor(t)) * float64(factor)))

	var points [4]timePoint
	for i, offset := range [4]int{-1, 0, 1, 2} {
		index := start
		subindex := frac + offset
		if subindex < 0 {
			subindex += factor
			index--
		} else if subindex >= factor {
			subindex -= factor
			index++
		}
		points[i] = timePoint{index, subindex}
	}
	return points
}
