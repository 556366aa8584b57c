// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"errors"
	"fmt"
)

// ErrRatioOutOfBounds is returned by SetResampleRatio and
// SetResampleRatioRelative when the requested ratio would not land
// strictly within 10% of the ratio the resampler was constructed with.
var ErrRatioOutOfBounds = errors.New("resample: new ratio is too far from the original")

// WrongNumberOfInputChannelsError is returned when the input's outer
// dimension does not match the resampler's channel count.
type WrongNumberOfInputChannelsError struct {
	Expected, Actual int
}

func (e *WrongNumberOfInputChannelsError) Error() string {
	return fmt.Sprintf("resample: wrong number of input channels: expected %d, got %d", e.Expected, e.Actual)
}

// WrongNumberOfOutputChannelsError is returned when the output's
// outer dimension does not match the resampler's channel count.
type WrongNumberOfOutputChannelsError struct {
	Expected, Actual int
}

func (e *WrongNumberOfOutputChannelsError) Error() string {
	return fmt.Sprintf("resample: wrong number of output channels: expected %d, got %d", e.Expected, e.Actual)
}

// WrongNumberOfMaskChannelsError is returned when a supplied active
// mask does not have one entry per channel.
type WrongNumberOfMaskChannelsError struct {
	Expected, Actual int
}

func (e *WrongNumberOfMaskChannelsError) Error() string {
	return fmt.Sprintf("resample: wrong number of mask channels: expected %d, got %d", e.Expected, e.Actual)
}

// WrongNumberOfInputFramesError is returned when an active channel's
// input slice does not have the length the resampler currently needs.
type WrongNumberOfInputFramesError struct {
	Channel, Expected, Actual int
}

func (e *WrongNumberOfInputFramesError) Error() string {
	return fmt.Sprintf("resample: channel %d: wrong number of input frames: expected %d, got %d",
		e.Channel, e.Expected, e.Actual)
}

// MissingCPUFeatureError is returned only at construction of an
// optionally-SIMD-accelerated resampler handle when the running CPU
// lacks the required feature. The scalar path implemented in this
// package never raises it.
type MissingCPUFeatureError struct {
	Feature string
}

func (e *MissingCPUFeatureError) Error() string {
	return fmt.Sprintf("resample: missing CPU feature: %s", e.Feature)
}
