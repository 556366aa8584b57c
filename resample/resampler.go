// SPDX-License-Identifier: EPL-2.0

// Package resample implements band-limited audio sample-rate
// conversion by arbitrary, possibly time-varying, real-valued ratios.
//
// Audio is processed in chunks, non-interleaved: each channel is an
// independent slice of floating point samples. Two families are
// provided: an asynchronous sinc interpolator (SincFixedIn,
// SincFixedOut) whose ratio may change between calls, and a
// synchronous FFT-based resampler (FftFixedIn, FftFixedInOut,
// FftFixedOut) fixed to a rational ratio derived from (fs_in, fs_out).
package resample

import "github.com/ik5/audpbx/utils"

// Resampler is the contract every resampler family in this package
// implements.
type Resampler[T utils.Sample] interface {
	// Process resamples a chunk of audio, allocating and returning
	// the per-channel output.
	Process(input [][]T, activeMask []bool) ([][]T, error)

	// ProcessIntoBuffer writes into a caller-owned output, resizing
	// each active channel to exactly the produced length. It is the
	// allocation-free, real-time-safe variant once steady state is
	// reached.
	ProcessIntoBuffer(input [][]T, output [][]T, activeMask []bool) error

	// AllocateOutputBuffer returns an output shape matching
	// GetMaxOutputSize, ready to be passed to ProcessIntoBuffer.
	AllocateOutputBuffer() [][]T

	// GetMaxOutputSize returns an upper bound, at the current ratio,
	// on the number of frames the next Process call can produce.
	GetMaxOutputSize() (channels, frames int)

	// NbrFramesNeeded returns how many frames of input, per channel,
	// the next Process call requires.
	NbrFramesNeeded() int

	// SetResampleRatio sets the current resample ratio. It fails with
	// ErrRatioOutOfBounds unless r divided by the ratio the resampler
	// was constructed with lies strictly between 0.9 and 1.1; on failure the resampler's
	// state is unchanged.
	SetResampleRatio(r float64) error

	// SetResampleRatioRelative sets the current ratio to k times the
	// original ratio. Same ±10% band and failure semantics as
	// SetResampleRatio.
	SetResampleRatioRelative(k float64) error
}

// ObjectSafeResampler is a type-erased Resampler fixed to the
// [][]float64 container, so heterogeneous resamplers (different
// families, all instantiated at T = float64) can be held behind a
// single dynamic handle. It is a pure forwarder, never a separate
// implementation.
type ObjectSafeResampler interface {
	Process(input [][]float64, activeMask []bool) ([][]float64, error)
	ProcessIntoBuffer(input [][]float64, output [][]float64, activeMask []bool) error
	AllocateOutputBuffer() [][]float64
	GetMaxOutputSize() (channels, frames int)
	NbrFramesNeeded() int
	SetResampleRatio(r float64) error
	SetResampleRatioRelative(k float64) error
}

// objectSafeForwarder adapts a Resampler[float64] to ObjectSafeResampler.
type objectSafeForwarder struct {
	inner Resampler[float64]
}

// AsObjectSafe wraps r so it can be stored behind ObjectSafeResampler
// alongside resamplers of other concrete families.
func AsObjectSafe(r Resampler[float64]) ObjectSafeResampler {
	return &objectSafeForwarder{inner: r}
}

func (f *objectSafeForwarder) Process(input [][]float64, activeMask []bool) ([][]float64, error) {
	return f.inner.Process(input, activeMask)
}

func (f *objectSafeForwarder) ProcessIntoBuffer(input, output [][]float64, activeMask []bool) error {
	return f.inner.ProcessIntoBuffer(input, output, activeMask)
}

func (f *objectSafeForwarder) AllocateOutputBuffer() [][]float64 {
	return f.inner.AllocateOutputBuffer()
}

func (f *objectSafeForwarder) GetMaxOutputSize() (int, int) {
	return f.inner.GetMaxOutputSize()
}

func (f *objectSafeForwarder) NbrFramesNeeded() int {
	return f.inner.NbrFramesNeeded()
}

func (f *objectSafeForwarder) SetResampleRatio(r float64) error {
	return f.inner.SetResampleRatio(r)
}

func (f *objectSafeForwarder) SetResampleRatioRelative(k float64) error {
	return f.inner.SetResampleRatioRelative(k)
}

// Params holds the filter bank and interpolation geometry shared by
// the async sinc resampler family.
type Params struct {
	// SincLen is the number of taps per polyphase row. Rounded up to
	// the next multiple of 8 at construction.
	SincLen int
	// FCutoff is the relative cutoff frequency, typically 0.80-0.99,
	// relative to min(fs_in, fs_out)/2.
	FCutoff float64
	// OversamplingFactor is the number of polyphase rows.
	OversamplingFactor int
	// Interpolation selects Nearest, Linear or Cubic sub-sample
	// interpolation.
	Interpolation Interpolation
	// Window selects the analytic window the filter bank is built
	// from.
	Window Window
}

// withinRatioBand reports whether candidate/original falls strictly
// inside (0.9, 1.1).
func withinRatioBand(candidate, original float64) bool {
	ratio := candidate / original
	return ratio > 0.9 && ratio < 1.1
}

// effectiveCutoff scales f_cutoff by ratio when downsampling (ratio <
// 1) to keep the passband below the new Nyquist; left unscaled when
// upsampling.
func effectiveCutoff(fCutoff, ratio float64) float64 {
	if ratio < 1.0 {
		return fCutoff * ratio
	}
	return fCutoff
}
