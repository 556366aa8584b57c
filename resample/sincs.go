// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"math"

	"github.com/ik5/audpbx/utils"
)

// sincs is the polyphase filter bank: factor rows ("phases"), sincLen
// taps each. Phase 0 holds the largest sub-sample offset; phase
// factor-1 holds zero offset (see makeSincs for why).
type sincs[T utils.Sample] struct {
	factor  int
	sincLen int
	taps    [][]T
}

func (s *sincs[T]) row(phase int) []T { return s.taps[phase] }

// roundUpToMultipleOf8 keeps the per-phase tap count a multiple of 8.
func roundUpToMultipleOf8(n int) int {
	if rem := n % 8; rem != 0 {
		n += 8 - rem
	}
	return n
}

// sincValue computes sinc(x) = sin(pi*x)/(pi*x), with sinc(0) = 1.
func sincValue[T utils.Sample](x T) T {
	if x == 0 {
		return 1
	}
	pix := float64(x) * math.Pi
	return T(math.Sin(pix) / pix)
}

// makeSincs builds the windowed-sinc polyphase filter bank for
// sincLen taps, factor phases, and the given (possibly pre-scaled)
// cutoff.
//
// y[x] = w[x]^2 * sinc((x - N/2) * cutoff / factor), for a length
// N = sincLen*factor window w. The result is de-interleaved into
// factor phases of sincLen taps, with phase index reversed relative
// to the naive interleaving: sincs[factor-1-n][p] = y[factor*p+n].
// This reversal is load-bearing for the direction the fractional-index
// math counts phases in, and must not be "fixed".
func makeSincs[T utils.Sample](sincLen, factor int, cutoff float64, window Window) *sincs[T] {
	sincLen = roundUpToMultipleOf8(sincLen)
	totPoints := sincLen * factor

	w := makeWindow[T](window, totPoints)
	half := T(totPoints) / 2
	cutoffT := T(cutoff)
	factorT := T(factor)

	y := make([]T, totPoints)
	for x := range y {
		xf := T(x)
		y[x] = w[x] * w[x] * sincValue((xf-half)*cutoffT/factorT)
	}

	taps := make([][]T, factor)
	for i := range taps {
		taps[i] = make([]T, sincLen)
	}
	for p := 0; p < sincLen; p++ {
		for n := 0; n < factor; n++ {
			taps[factor-n-1][p] = y[factor*p+n]
		}
	}

	return &sincs[T]{factor: factor, sincLen: sincLen, taps: taps}
}
