// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"math"

	"github.com/ik5/audpbx/utils"
)

// SincFixedIn resamples a fixed number of input frames per call,
// producing a variable number of output frames.
type SincFixedIn[T utils.Sample] struct {
	channels  int
	chunkSize int
	sincLen   int
	factor    int
	interp    Interpolation
	table     *sincs[T]

	ratioOriginal float64
	ratioCurrent  float64
	lastIndex     float64

	buffers [][]T
}

var _ Resampler[float64] = (*SincFixedIn[float64])(nil)

// NewSincFixedIn builds a SincFixedIn resampler. resampleRatio is
// fs_out/fs_in; chunkSize is the fixed number of input frames per
// channel consumed by each Process call.
func NewSincFixedIn[T utils.Sample](resampleRatio float64, params Params, chunkSize, channels int) *SincFixedIn[T] {
	sincLen := roundUpToMultipleOf8(params.SincLen)
	cutoff := effectiveCutoff(params.FCutoff, resampleRatio)
	table := makeSincs[T](sincLen, params.OversamplingFactor, cutoff, params.Window)

	buffers := make([][]T, channels)
	for c := range buffers {
		buffers[c] = make([]T, chunkSize+2*sincLen)
	}

	return &SincFixedIn[T]{
		channels:      channels,
		chunkSize:     chunkSize,
		sincLen:       sincLen,
		factor:        params.OversamplingFactor,
		interp:        params.Interpolation,
		table:         table,
		ratioOriginal: resampleRatio,
		ratioCurrent:  resampleRatio,
		lastIndex:     -float64(sincLen),
		buffers:       buffers,
	}
}

func (r *SincFixedIn[T]) NbrFramesNeeded() int { return r.chunkSize }

// maxOutputEstimate is an upper bound large enough in practice:
// ceil(chunk_size * current_ratio) + 10.
func (r *SincFixedIn[T]) maxOutputEstimate() int {
	return int(math.Ceil(float64(r.chunkSize)*r.ratioCurrent)) + 10
}

func (r *SincFixedIn[T]) GetMaxOutputSize() (int, int) {
	return r.channels, r.maxOutputEstimate()
}

func (r *SincFixedIn[T]) AllocateOutputBuffer() [][]T {
	_, frames := r.GetMaxOutputSize()
	out := make([][]T, r.channels)
	for c := range out {
		out[c] = make([]T, frames)
	}
	return out
}

func (r *SincFixedIn[T]) SetResampleRatio(newRatio float64) error {
	if !withinRatioBand(newRatio, r.ratioOriginal) {
		return ErrRatioOutOfBounds
	}
	r.ratioCurrent = newRatio
	return nil
}

func (r *SincFixedIn[T]) SetResampleRatioRelative(k float64) error {
	return r.SetResampleRatio(r.ratioOriginal * k)
}

// validateAndInstall runs the full input validation sequence and, only
// if every check passes, slides the carry region and installs the
// fresh input into the per-channel buffers.
func (r *SincFixedIn[T]) validateAndInstall(input [][]T, activeMask []bool) ([]bool, error) {
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
		if len(input[c]) != r.chunkSize {
			return nil, &WrongNumberOfInputFramesError{Channel: c, Expected: r.chunkSize, Actual: len(input[c])}
		}
	}

	prevFreshEnd := r.chunkSize + 2*r.sincLen
	for c := 0; c < r.channels; c++ {
		if !mask[c] {
			continue
		}
		slideCarry(r.buffers[c], prevFreshEnd, r.sincLen)
		installFresh(r.buffers[c], input[c], r.sincLen)
	}

	return mask, nil
}

// drive runs the output-time cursor across the buffer once per
// Process call, writing into out[c][0:n] for every active channel,
// and returns n, the number of output frames produced.
func (r *SincFixedIn[T]) drive(mask []bool, out [][]T) int {
	tRatio := 1.0 / r.ratioCurrent
	idx := r.lastIndex
	endIdx := float64(r.chunkSize - (r.sincLen + 1))

	n := 0
	for idx < endIdx {
		idx += tRatio
		bufIdx := idx + float64(2*r.sincLen)
		for c := 0; c < r.channels; c++ {
			if !mask[c] {
				continue
			}
			out[c][n] = interpolatedSample(r.interp, r.buffers[c], r.table, bufIdx, r.factor)
		}
		n++
	}

	r.lastIndex = idx - float64(r.chunkSize)
	return n
}

func (r *SincFixedIn[T]) Process(input [][]T, activeMask []bool) ([][]T, error) {
	mask, err := r.validateAndInstall(input, activeMask)
	if err != nil {
		return nil, err
	}

	estimate := r.maxOutputEstimate()
	out := make([][]T, r.channels)
	for c := range out {
		if mask[c] {
			out[c] = make([]T, estimate)
		}
	}

	n := r.drive(mask, out)

	for c := range out {
		if mask[c] {
			out[c] = out[c][:n]
		} else {
			out[c] = []T{}
		}
	}
	return out, nil
}

func (r *SincFixedIn[T]) ProcessIntoBuffer(input, output [][]T, activeMask []bool) error {
	if len(output) != r.channels {
		return &WrongNumberOfOutputChannelsError{Expected: r.channels, Actual: len(output)}
	}
	mask, err := r.validateAndInstall(input, activeMask)
	if err != nil {
		return err
	}

	estimate := r.maxOutputEstimate()
	for c := range output {
		if !mask[c] {
			continue
		}
		if cap(output[c]) < estimate {
			grown := make([]T, estimate)
			copy(grown, output[c])
			output[c] = grown
		} else {
			output[c] = output[c][:cap(output[c])]
		}
	}

	n := r.drive(mask, output)

	for c := range output {
		if mask[c] {
			output[c] = output[c][:n]
		}
	}
	return nil
}
