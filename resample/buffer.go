// SPDX-License-Identifier: EPL-2.0

package resample

import "github.com/ik5/audpbx/utils"

// slideCarry copies the trailing 2*sincLen samples of buf (the
// window ending at prevFreshEnd) down to the start of buf, so they
// become the carry region the next call's kernel evaluations read
// through when the fractional index is small or negative.
func slideCarry[T utils.Sample](buf []T, prevFreshEnd, sincLen int) {
	carry := 2 * sincLen
	copy(buf[:carry], buf[prevFreshEnd-carry:prevFreshEnd])
}

// installFresh copies this call's input samples into buf right after
// the carry region.
func installFresh[T utils.Sample](buf []T, fresh []T, sincLen int) {
	copy(buf[2*sincLen:2*sincLen+len(fresh)], fresh)
}
