// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audpbx/resample"
)

// resamplerChunkFrames is the fixed number of output frames the
// internal sinc engine produces per call. ReadSamples serves the
// caller's (arbitrarily sized) requests out of a queue filled one
// engine chunk at a time.
const resamplerChunkFrames = 256

func defaultResampleParams() resample.Params {
	return resample.Params{
		SincLen:            64,
		FCutoff:            0.95,
		OversamplingFactor: 16,
		Interpolation:      resample.Cubic,
		Window:             resample.BlackmanHarris,
	}
}

// Resampler streams from src to a target sample rate using the
// band-limited sinc interpolator (package resample). Works on
// interleaved samples; preserves channel count.
type Resampler struct {
	src      Source
	channels int
	dstRate  int

	engine *resample.SincFixedOut[float32]

	// Per-channel scratch for the deinterleaved input the engine
	// consumes; resized to NbrFramesNeeded() on every refill, since
	// FixedOut's requirement drifts call to call.
	inScratch [][]float32
	srcBuf    []float32

	// Interleaved samples produced by the last engine call, not yet
	// handed to the caller.
	queue    []float32
	queuePos int

	srcEOF       bool
	readErr      error
	fullyDrained bool

	// sawRealInput latches true the first time fillInput reads any
	// actual sample from src. Used to skip the flush chunk entirely
	// for a source that was already exhausted before anything real
	// was ever read: there is no filter tail to drain.
	sawRealInput bool
}

// NewResampler builds a Resampler from src to dstRate frames per
// second, preserving src's channel count.
func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(dstRate) / float64(src.SampleRate())

	inScratch := make([][]float32, channels)

	return &Resampler{
		src:       src,
		channels:  channels,
		dstRate:   dstRate,
		engine:    resample.NewSincFixedOut[float32](ratio, defaultResampleParams(), resamplerChunkFrames, channels),
		inScratch: inScratch,
		srcBuf:    make([]float32, 4096),
	}
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// fillInput reads exactly NbrFramesNeeded() frames from src into
// r.inScratch, deinterleaving as it goes. Once src reports io.EOF the
// remainder of the needed frames is zero-padded: the sinc engine's
// zero-input decay then flushes the tail of the real signal out of
// the filter on this call.
func (r *Resampler) fillInput() {
	needed := r.engine.NbrFramesNeeded()
	for c := range r.inScratch {
		if cap(r.inScratch[c]) < needed {
			r.inScratch[c] = make([]float32, needed)
		} else {
			r.inScratch[c] = r.inScratch[c][:needed]
		}
	}

	got := 0
	for got < needed && !r.srcEOF {
		want := (needed - got) * r.channels
		if want > len(r.srcBuf) {
			want = len(r.srcBuf)
		}
		n, err := r.src.ReadSamples(r.srcBuf[:want])
		frames := n / r.channels
		for f := 0; f < frames; f++ {
			for c := 0; c < r.channels; c++ {
				r.inScratch[c][got+f] = r.srcBuf[f*r.channels+c]
			}
		}
		got += frames
		if frames > 0 {
			r.sawRealInput = true
		}

		switch {
		case err == io.EOF:
			r.srcEOF = true
		case err != nil:
			r.srcEOF = true
			r.readErr = err
		}
	}

	for c := range r.inScratch {
		for i := got; i < needed; i++ {
			r.inScratch[c][i] = 0
		}
	}
}

// refill runs one engine call and queues its interleaved output. It
// allows exactly one call past src's exhaustion (the zero-padded
// flush chunk computed by fillInput); after that it reports io.EOF
// without touching the engine again.
func (r *Resampler) refill() error {
	if r.fullyDrained {
		if r.readErr != nil {
			return r.readErr
		}
		return io.EOF
	}

	wasEOF := r.srcEOF
	r.fillInput()
	if wasEOF {
		r.fullyDrained = true
	}

	if !r.sawRealInput && r.srcEOF {
		// src never produced a single real sample: nothing to flush.
		r.fullyDrained = true
		if r.readErr != nil {
			return r.readErr
		}
		return io.EOF
	}

	out, err := r.engine.Process(r.inScratch, nil)
	if err != nil {
		return err
	}

	// The engine's filter bank is not normalised: each phase sums to
	// about 1/cutoff, and the cutoff is scaled by the ratio when
	// downsampling. Scale the output back to unity gain.
	params := defaultResampleParams()
	gain := float32(params.FCutoff)
	if ratio := float64(r.dstRate) / float64(r.src.SampleRate()); ratio < 1 {
		gain *= float32(ratio)
	}

	frames := len(out[0])
	need := frames * r.channels
	if cap(r.queue) < need {
		r.queue = make([]float32, need)
	} else {
		r.queue = r.queue[:need]
	}
	for f := 0; f < frames; f++ {
		for c := 0; c < r.channels; c++ {
			r.queue[f*r.channels+c] = out[c][f] * gain
		}
	}
	r.queuePos = 0
	return nil
}

// ReadSamples produces dst samples at r.dstRate. dst length should be
// a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	written := 0
	for written < len(dst) {
		if r.queuePos >= len(r.queue) {
			if err := r.refill(); err != nil {
				if written > 0 {
					return written, nil
				}
				return 0, err
			}
			continue
		}
		n := copy(dst[written:], r.queue[r.queuePos:])
		written += n
		r.queuePos += n
	}

	return written, nil
}
