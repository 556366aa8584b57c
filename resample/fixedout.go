// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"math"

	"github.com/ik5/audpbx/utils"
)

// SincFixedOut resamples to a fixed number of output frames per call;
// the number of input frames required varies call to call and is
// reported by NbrFramesNeeded.
type SincFixedOut[T utils.Sample] struct {
	channels        int
	chunkSize       int
	neededInputSize int
	sincLen         int
	factor          int
	interp          Interpolation
	table           *sincs[T]

	ratioOriginal     float64
	ratioCurrent      float64
	lastIndex         float64
	currentBufferFill int

	buffers [][]T
}

var _ Resampler[float64] = (*SincFixedOut[float64])(nil)

// NewSincFixedOut builds a SincFixedOut resampler. resampleRatio is
// fs_out/fs_in; chunkSize is the fixed number of output frames per
// channel produced by each Process call.
func NewSincFixedOut[T utils.Sample](resampleRatio float64, params Params, chunkSize, channels int) *SincFixedOut[T] {
	sincLen := roundUpToMultipleOf8(params.SincLen)
	cutoff := effectiveCutoff(params.FCutoff, resampleRatio)
	table := makeSincs[T](sincLen, params.OversamplingFactor, cutoff, params.Window)

	neededInputSize := int(math.Ceil(float64(chunkSize)/resampleRatio)) + 1
	bufLen := 3*neededInputSize/2 + 2*sincLen

	buffers := make([][]T, channels)
	for c := range buffers {
		buffers[c] = make([]T, bufLen)
	}

	return &SincFixedOut[T]{
		channels:          channels,
		chunkSize:         chunkSize,
		neededInputSize:   neededInputSize,
		sincLen:           sincLen,
		factor:            params.OversamplingFactor,
		interp:            params.Interpolation,
		table:             table,
		ratioOriginal:     resampleRatio,
		ratioCurrent:      resampleRatio,
		lastIndex:         -float64(sincLen),
		currentBufferFill: neededInputSize,
		buffers:           buffers,
	}
}

func (r *SincFixedOut[T]) NbrFramesNeeded() int { return r.neededInputSize }

func (r *SincFixedOut[T]) GetMaxOutputSize() (int, int) { return r.channels, r.chunkSize }

func (r *SincFixedOut[T]) AllocateOutputBuffer() [][]T {
	out := make([][]T, r.channels)
	for c := range out {
		out[c] = make([]T, r.chunkSize)
	}
	return out
}

func (r *SincFixedOut[T]) SetResampleRatio(newRatio float64) error {
	if !withinRatioBand(newRatio, r.ratioOriginal) {
		return ErrRatioOutOfBounds
	}
	r.ratioCurrent = newRatio
	r.neededInputSize = int(math.Ceil(float64(r.chunkSize)/r.ratioCurrent)) + 1
	return nil
}

func (r *SincFixedOut[T]) SetResampleRatioRelative(k float64) error {
	return r.SetResampleRatio(r.ratioOriginal * k)
}

// validateAndInstall runs the full input validation sequence and, only
// if every check passes, slides the carry region and installs the
// fresh input into the per-channel buffers.
func (r *SincFixedOut[T]) validateAndInstall(input [][]T, activeMask []bool) ([]bool, error) {
	if len(input) != r.channels {
		return nil, &WrongNumberOfInputChannelsError{Expected: r.channels, Actual: len(input)}
	}
	mask, err := resolveActiveMask(input, activeMask, r.channels)
	if err != nil {
		return nil, err
	}
	for c := 0; c < r.channels; c++ {
		if !mask[c] {
			continue
		}
		if len(input[c]) != r.neededInputSize {
			return nil, &WrongNumberOfInputFramesError{Channel: c, Expected: r.neededInputSize, Actual: len(input[c])}
		}
	}

	prevFreshEnd := r.currentBufferFill + 2*r.sincLen
	for c := 0; c < r.channels; c++ {
		if !mask[c] {
			continue
		}
		slideCarry(r.buffers[c], prevFreshEnd, r.sincLen)
		installFresh(r.buffers[c], input[c], r.sincLen)
	}
	r.currentBufferFill = r.neededInputSize

	return mask, nil
}

// drive runs exactly chunkSize steps of the output-time cursor,
// writing into out[c][0:chunkSize] for every active channel, then
// rebases the cursor and refines neededInputSize for the caller's
// next call.
func (r *SincFixedOut[T]) drive(mask []bool, out [][]T) {
	tRatio := 1.0 / r.ratioCurrent
	idx := r.lastIndex

	for n := 0; n < r.chunkSize; n++ {
		idx += tRatio
		bufIdx := idx + float64(2*r.sincLen)
		for c := 0; c < r.channels; c++ {
			if !mask[c] {
				continue
			}
			out[c][n] = interpolatedSample(r.interp, r.buffers[c], r.table, bufIdx, r.factor)
		}
	}

	r.lastIndex = idx - float64(r.currentBufferFill)
	oldNeeded := r.neededInputSize
	r.neededInputSize = oldNeeded + int(math.Round(r.lastIndex)) + r.sincLen
}

func (r *SincFixedOut[T]) Process(input [][]T, activeMask []bool) ([][]T, error) {
	mask, err := r.validateAndInstall(input, activeMask)
	if err != nil {
		return nil, err
	}

	out := make([][]T, r.channels)
	for c := range out {
		if mask[c] {
			out[c] = make([]T, r.chunkSize)
		}
	}

	r.drive(mask, out)

	for c := range out {
		if !mask[c] {
			out[c] = []T{}
		}
	}
	return out, nil
}

func (r *SincFixedOut[T]) ProcessIntoBuffer(input, output [][]T, activeMask []bool) error {
	if len(output) != r.channels {
		return &WrongNumberOfOutputChannelsError{Expected: r.channels, Actual: len(output)}
	}
	mask, err := r.validateAndInstall(input, activeMask)
	if err != nil {
		return err
	}

	for c := range output {
		if !mask[c] {
			continue
		}
		if cap(output[c]) < r.chunkSize {
			output[c] = make([]T, r.chunkSize)
		} else {
			output[c] = output[c][:r.chunkSize]
		}
	}

	r.drive(mask, output)
	return nil
}
