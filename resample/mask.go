// SPDX-License-Identifier: EPL-2.0

package resample

import "github.com/ik5/audpbx/utils"

// resolveActiveMask derives the active-channel mask for a call: the
// supplied mask if non-nil, otherwise a channel is active iff its
// input slice is non-empty.
func resolveActiveMask[T utils.Sample](input [][]T, mask []bool, channels int) ([]bool, error) {
	if mask != nil {
		if len(mask) != channels {
			return nil, &WrongNumberOfMaskChannelsError{Expected: channels, Actual: len(mask)}
		}
		resolved := make([]bool, channels)
		copy(resolved, mask)
		return resolved, nil
	}

	resolved := make([]bool, channels)
	for c := range resolved {
		resolved[c] = len(input[c]) > 0
	}
	return resolved, nil
}
