// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/ik5/audpbx/utils"
)

// fftBlock resizes one real-valued block from inSize samples to
// outSize samples by zero-padding or truncating its spectrum, scaling
// to preserve amplitude across the size change. This is the full
// extent of this package's spectral manipulation: the FFT resampler
// family exists to satisfy callers who want a fixed rational ratio at
// higher throughput than the async sinc family provides.
type fftBlock struct {
	inSize, outSize int
	forward         *algofft.PlanRealT[float32, complex64]
	inverse         *algofft.PlanRealT[float32, complex64]
	timeIn          []float32
	freqIn          []complex64
	freqOut         []complex64
	timeOut         []float32
}

func newFFTBlock(inSize, outSize int) (*fftBlock, error) {
	fwd, err := algofft.NewPlanReal32(inSize)
	if err != nil {
		return nil, fmt.Errorf("resample: fft forward plan (size %d): %w", inSize, err)
	}
	inv, err := algofft.NewPlanReal32(outSize)
	if err != nil {
		return nil, fmt.Errorf("resample: fft inverse plan (size %d): %w", outSize, err)
	}
	return &fftBlock{
		inSize:  inSize,
		outSize: outSize,
		forward: fwd,
		inverse: inv,
		timeIn:  make([]float32, inSize),
		freqIn:  make([]complex64, inSize/2+1),
		freqOut: make([]complex64, outSize/2+1),
		timeOut: make([]float32, outSize),
	}, nil
}

func (b *fftBlock) resize(dst, src []float32) error {
	copy(b.timeIn, src)
	if err := b.forward.Forward(b.freqIn, b.timeIn); err != nil {
		return fmt.Errorf("resample: fft forward: %w", err)
	}

	scale := float32(b.outSize) / float32(b.inSize)
	n := min(len(b.freqIn), len(b.freqOut))
	for i := 0; i < n; i++ {
		b.freqOut[i] = b.freqIn[i] * complex(scale, 0)
	}
	for i := n; i < len(b.freqOut); i++ {
		b.freqOut[i] = 0
	}

	if err := b.inverse.Inverse(b.timeOut, b.freqOut); err != nil {
		return fmt.Errorf("resample: fft inverse: %w", err)
	}
	copy(dst, b.timeOut)
	return nil
}

// rationalRatio reduces fsOut/fsIn to lowest terms L/M via their GCD.
func rationalRatio(fsIn, fsOut int) (l, m int) {
	g := gcd(fsIn, fsOut)
	return fsOut / g, fsIn / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// FftFixedIn consumes a fixed number of input frames per call and
// produces a fixed number of output frames derived from the exact
// rational ratio fsOut/fsIn, processed sub_chunks blocks at a time.
type FftFixedIn[T utils.Sample] struct {
	channels   int
	chunkSize  int
	subChunks  int
	blockIn    int
	blockOut   int
	blocks     []*fftBlock
	scratchIn  []float32
	scratchOut []float32
}

var _ Resampler[float64] = (*FftFixedIn[float64])(nil)

// NewFftFixedIn builds an FftFixedIn resampler for the given sample
// rates. chunkSize input frames are processed as subChunks blocks of
// chunkSize/subChunks frames each.
func NewFftFixedIn[T utils.Sample](fsIn, fsOut, chunkSize, subChunks, channels int) (*FftFixedIn[T], error) {
	l, m := rationalRatio(fsIn, fsOut)
	blockIn := chunkSize / subChunks
	blockOut := blockIn * l / m

	blocks := make([]*fftBlock, channels)
	for c := range blocks {
		blk, err := newFFTBlock(blockIn, blockOut)
		if err != nil {
			return nil, err
		}
		blocks[c] = blk
	}

	return &FftFixedIn[T]{
		channels:   channels,
		chunkSize:  chunkSize,
		subChunks:  subChunks,
		blockIn:    blockIn,
		blockOut:   blockOut,
		blocks:     blocks,
		scratchIn:  make([]float32, blockIn),
		scratchOut: make([]float32, blockOut),
	}, nil
}

func (r *FftFixedIn[T]) NbrFramesNeeded() int { return r.chunkSize }

func (r *FftFixedIn[T]) GetMaxOutputSize() (int, int) {
	return r.channels, r.blockOut * r.subChunks
}

func (r *FftFixedIn[T]) AllocateOutputBuffer() [][]T {
	_, frames := r.GetMaxOutputSize()
	out := make([][]T, r.channels)
	for c := range out {
		out[c] = make([]T, frames)
	}
	return out
}

// SetResampleRatio is rejected: the FFT family is fixed to the
// rational ratio derived from its construction sample rates.
func (r *FftFixedIn[T]) SetResampleRatio(float64) error { return ErrRatioOutOfBounds }

func (r *FftFixedIn[T]) SetResampleRatioRelative(float64) error { return ErrRatioOutOfBounds }

func (r *FftFixedIn[T]) Process(input [][]T, activeMask []bool) ([][]T, error) {
	out := r.AllocateOutputBuffer()
	if err := r.ProcessIntoBuffer(input, out, activeMask); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FftFixedIn[T]) ProcessIntoBuffer(input, output [][]T, activeMask []bool) error {
	if len(input) != r.channels {
		return &WrongNumberOfInputChannelsError{Expected: r.channels, Actual: len(input)}
	}
	if len(output) != r.channels {
		return &WrongNumberOfOutputChannelsError{Expected: r.channels, Actual: len(output)}
	}
	mask, err := resolveActiveMask(input, activeMask, r.channels)
	if err != nil {
		return err
	}
	for c := 0; c < r.channels; c++ {
		if mask[c] && len(input[c]) != r.chunkSize {
			return &WrongNumberOfInputFramesError{Channel: c, Expected: r.chunkSize, Actual: len(input[c])}
		}
	}

	outFrames := r.blockOut * r.subChunks
	for c := 0; c < r.channels; c++ {
		if !mask[c] {
			if len(output[c]) != 0 {
				output[c] = output[c][:0]
			}
			continue
		}
		if cap(output[c]) < outFrames {
			output[c] = make([]T, outFrames)
		} else {
			output[c] = output[c][:outFrames]
		}

		for b := 0; b < r.subChunks; b++ {
			for i := 0; i < r.blockIn; i++ {
				r.scratchIn[i] = float32(input[c][b*r.blockIn+i])
			}
			if err := r.blocks[c].resize(r.scratchOut, r.scratchIn); err != nil {
				return err
			}
			for i := 0; i < r.blockOut; i++ {
				output[c][b*r.blockOut+i] = T(r.scratchOut[i])
			}
		}
	}
	return nil
}

// FftFixedOut produces a fixed number of output frames per call and
// reports a fixed number of required input frames (the ratio is
// exactly rational, so unlike SincFixedOut the requirement never
// drifts).
type FftFixedOut[T utils.Sample] struct {
	inner *FftFixedIn[T]
}

// NewFftFixedOut builds an FftFixedOut resampler fixed to chunkSize
// output frames, processed as subChunks blocks.
func NewFftFixedOut[T utils.Sample](fsIn, fsOut, chunkSize, subChunks, channels int) (*FftFixedOut[T], error) {
	l, m := rationalRatio(fsIn, fsOut)
	blockOut := chunkSize / subChunks
	blockIn := blockOut * m / l

	in, err := NewFftFixedIn[T](fsIn, fsOut, blockIn*subChunks, subChunks, channels)
	if err != nil {
		return nil, err
	}
	return &FftFixedOut[T]{inner: in}, nil
}

func (r *FftFixedOut[T]) NbrFramesNeeded() int                { return r.inner.chunkSize }
func (r *FftFixedOut[T]) GetMaxOutputSize() (int, int)        { return r.inner.GetMaxOutputSize() }
func (r *FftFixedOut[T]) AllocateOutputBuffer() [][]T         { return r.inner.AllocateOutputBuffer() }
func (r *FftFixedOut[T]) SetResampleRatio(v float64) error    { return r.inner.SetResampleRatio(v) }
func (r *FftFixedOut[T]) SetResampleRatioRelative(v float64) error {
	return r.inner.SetResampleRatioRelative(v)
}

func (r *FftFixedOut[T]) Process(input [][]T, activeMask []bool) ([][]T, error) {
	return r.inner.Process(input, activeMask)
}

func (r *FftFixedOut[T]) ProcessIntoBuffer(input, output [][]T, activeMask []bool) error {
	return r.inner.ProcessIntoBuffer(input, output, activeMask)
}

var _ Resampler[float64] = (*FftFixedOut[float64])(nil)

// FftFixedInOut is both input- and output-fixed: since the ratio is
// exactly rational, fixing chunkSize input frames also fixes the
// output length. It is a single-block (subChunks=1) FftFixedIn.
type FftFixedInOut[T utils.Sample] struct {
	inner *FftFixedIn[T]
}

// NewFftFixedInOut builds an FftFixedInOut resampler.
func NewFftFixedInOut[T utils.Sample](fsIn, fsOut, chunkSize, channels int) (*FftFixedInOut[T], error) {
	in, err := NewFftFixedIn[T](fsIn, fsOut, chunkSize, 1, channels)
	if err != nil {
		return nil, err
	}
	return &FftFixedInOut[T]{inner: in}, nil
}

func (r *FftFixedInOut[T]) NbrFramesNeeded() int         { return r.inner.NbrFramesNeeded() }
func (r *FftFixedInOut[T]) GetMaxOutputSize() (int, int) { return r.inner.GetMaxOutputSize() }
func (r *FftFixedInOut[T]) AllocateOutputBuffer() [][]T  { return r.inner.AllocateOutputBuffer() }
func (r *FftFixedInOut[T]) SetResampleRatio(v float64) error {
	return r.inner.SetResampleRatio(v)
}
func (r *FftFixedInOut[T]) SetResampleRatioRelative(v float64) error {
	return r.inner.SetResampleRatioRelative(v)
}

func (r *FftFixedInOut[T]) Process(input [][]T, activeMask []bool) ([][]T, error) {
	return r.inner.Process(input, activeMask)
}

func (r *FftFixedInOut[T]) ProcessIntoBuffer(input, output [][]T, activeMask []bool) error {
	return r.inner.ProcessIntoBuffer(input, output, activeMask)
}

var _ Resampler[float64] = (*FftFixedInOut[float64])(nil)
