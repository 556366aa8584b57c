// SPDX-License-Identifier: EPL-2.0

package resample

import "github.com/ik5/audpbx/utils"

// sincInterpolated computes the dot product of sincLen consecutive
// samples of wave, starting at index, against the polyphase kernel
// selected by subindex. This is the scalar reference kernel; SSE3,
// AVX and Neon specialisations of the same mathematical operation
// could be added later behind build tags without changing this
// signature.
func sincInterpolated[T utils.Sample](wave []T, s *sincs[T], index, subindex int) T {
	taps := s.row(subindex)
	var acc T
	for k, c := range taps {
		acc += wave[index+k] * c
	}
	return acc
}
