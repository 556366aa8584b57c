package audio

import (
	"io"
	"math"
	"testing"
)

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	src := newSilentSource(44100, 2, 1000)
	resampler := NewResampler(src, 8000)

	if resampler.SampleRate() != 8000 {
		t.Errorf("Resampler.SampleRate() = %d, want 8000", resampler.SampleRate())
	}

	if resampler.Channels() != 2 {
		t.Errorf("Resampler.Channels() = %d, want 2", resampler.Channels())
	}
}

func TestResampler_SameRate(t *testing.T) {
	t.Parallel()

	// No resampling needed (same rate). A long constant source is used
	// so the sinc engine's warm-up transient (a few hundred frames)
	// has fully decayed by the time we check steady-state values.
	src := newConstantSource(8000, 1, 20000, 0.5)
	resampler := NewResampler(src, 8000)

	buf := make([]float32, 4096)
	var samples []float32
	for len(samples) < 3000 {
		n, err := resampler.ReadSamples(buf)
		samples = append(samples, buf[:n]...)
		if err != nil && err != io.EOF {
			t.Fatalf("ReadSamples() error = %v", err)
		}
		if err == io.EOF {
			break
		}
	}

	if len(samples) < 2000 {
		t.Fatalf("collected only %d samples, want at least 2000", len(samples))
	}

	for i := 2000; i < len(samples); i++ {
		if math.Abs(float64(samples[i]-0.5)) > 0.05 {
			t.Errorf("samples[%d] = %v, want ≈0.5 at steady state", i, samples[i])
		}
	}
}

func TestResampler_Downsampling(t *testing.T) {
	t.Parallel()

	// Downsample from 44.1kHz to 8kHz
	totalSamples := 44100 // 1 second of audio
	src := newSineSource(44100, 1, totalSamples, 440.0)
	resampler := NewResampler(src, 8000)

	buf := make([]float32, 1024)
	var samples []float32

	for {
		n, err := resampler.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	// Should have approximately 8000 samples (1 second at 8kHz); the
	// chunked engine quantises the tail to the nearest internal chunk.
	expected := 8000
	tolerance := 400
	if len(samples) < expected-tolerance || len(samples) > expected+tolerance {
		t.Errorf("Resampled %d samples, want ≈%d (±%d)", len(samples), expected, tolerance)
	}

	for i, s := range samples {
		if s < -1.5 || s > 1.5 {
			t.Errorf("samples[%d] = %v, outside reasonable range [-1.5, 1.5]", i, s)
		}
	}
}

func TestResampler_Upsampling(t *testing.T) {
	t.Parallel()

	// Upsample from 8kHz to 44.1kHz
	totalSamples := 8000 // 1 second of audio
	src := newSineSource(8000, 1, totalSamples, 440.0)
	resampler := NewResampler(src, 44100)

	buf := make([]float32, 1024)
	var samples []float32

	for {
		n, err := resampler.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	expected := 44100
	tolerance := 600
	if len(samples) < expected-tolerance || len(samples) > expected+tolerance {
		t.Errorf("Resampled %d samples, want ≈%d (±%d)", len(samples), expected, tolerance)
	}

	for i, s := range samples {
		if s < -1.5 || s > 1.5 {
			t.Errorf("samples[%d] = %v, outside reasonable range [-1.5, 1.5]", i, s)
		}
	}
}

func TestResampler_StereoPreserved(t *testing.T) {
	t.Parallel()

	src := newMockSource(44100, 2, 20000, func(sample int, channel int) float32 {
		if channel == 0 {
			return 0.3
		}
		return 0.7
	})

	resampler := NewResampler(src, 8000)

	if resampler.Channels() != 2 {
		t.Fatalf("Resampler.Channels() = %d, want 2", resampler.Channels())
	}

	// Read and discard enough to clear the warm-up transient, then
	// check the next frames for the expected per-channel levels.
	warm := make([]float32, 4096)
	for total := 0; total < 4096; {
		n, _ := resampler.ReadSamples(warm)
		total += n
	}

	buf := make([]float32, 200) // 100 stereo frames
	n, err := resampler.ReadSamples(buf)
	if n == 0 {
		t.Fatal("ReadSamples() returned 0 samples")
	}
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	frames := n / 2
	for f := range frames {
		left := buf[f*2]
		right := buf[f*2+1]
		if math.Abs(float64(left-0.3)) > 0.1 {
			t.Errorf("frame[%d] left = %v, want ≈0.3", f, left)
		}
		if math.Abs(float64(right-0.7)) > 0.1 {
			t.Errorf("frame[%d] right = %v, want ≈0.7", f, right)
		}
	}
}

func TestResampler_EOF(t *testing.T) {
	t.Parallel()

	src := newSilentSource(44100, 1, 100)
	resampler := NewResampler(src, 8000)

	buf := make([]float32, 1024)

	var totalRead int
	for {
		n, err := resampler.ReadSamples(buf)
		totalRead += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if totalRead == 0 {
		t.Error("No samples read before EOF")
	}

	n, err := resampler.ReadSamples(buf)
	if err != io.EOF {
		t.Errorf("After EOF, ReadSamples() error = %v, want io.EOF", err)
	}
	if n != 0 {
		t.Errorf("After EOF, ReadSamples() n = %d, want 0", n)
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	src := newSilentSource(44100, 2, 1000)
	resampler := NewResampler(src, 8000)

	buf := make([]float32, 7) // not a multiple of 2 channels
	_, err := resampler.ReadSamples(buf)

	if err != ErrInvalidDstSize {
		t.Errorf("ReadSamples() with invalid size error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := newSilentSource(44100, 2, 1000)
	resampler := NewResampler(src, 8000)

	if err := resampler.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}

func TestResampler_ConsecutiveReads(t *testing.T) {
	t.Parallel()

	src := newConstantSource(44100, 1, 44100, 0.5)
	resampler := NewResampler(src, 8000)

	buf1 := make([]float32, 100)
	buf2 := make([]float32, 100)

	n1, err1 := resampler.ReadSamples(buf1)
	if err1 != nil && err1 != io.EOF {
		t.Fatalf("First ReadSamples() error = %v", err1)
	}

	n2, err2 := resampler.ReadSamples(buf2)
	if err2 != nil && err2 != io.EOF {
		t.Fatalf("Second ReadSamples() error = %v", err2)
	}

	if n1 == 0 && err1 != io.EOF {
		t.Error("First read returned 0 samples without EOF")
	}
	if n2 == 0 && err2 != io.EOF && err1 != io.EOF {
		t.Error("Second read returned 0 samples without EOF")
	}
}

func TestResampler_VeryShortSource(t *testing.T) {
	t.Parallel()

	src := newSilentSource(44100, 1, 2)
	resampler := NewResampler(src, 8000)

	buf := make([]float32, 10)
	n, err := resampler.ReadSamples(buf)

	if err != io.EOF && err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n < 0 {
		t.Errorf("ReadSamples() n = %d, should be non-negative", n)
	}
}

func TestResampler_SmallBuffer(t *testing.T) {
	t.Parallel()

	src := newSineSource(44100, 2, 44100, 440.0)
	resampler := NewResampler(src, 8000)

	buf := make([]float32, 2) // 1 stereo frame
	n, err := resampler.ReadSamples(buf)

	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 2 && n != 0 {
		t.Errorf("ReadSamples() n = %d, want 2 or 0", n)
	}
}

func TestResampler_ExtremeDownsampling(t *testing.T) {
	t.Parallel()

	src := newSineSource(48000, 1, 48000, 440.0)
	resampler := NewResampler(src, 8000)

	buf := make([]float32, 1024)
	var totalSamples int

	for {
		n, err := resampler.ReadSamples(buf)
		totalSamples += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	expected := 8000
	tolerance := 400
	if totalSamples < expected-tolerance || totalSamples > expected+tolerance {
		t.Errorf("Total samples = %d, want ≈%d (±%d)", totalSamples, expected, tolerance)
	}
}

func TestResampler_ExtremeUpsampling(t *testing.T) {
	t.Parallel()

	src := newSineSource(8000, 1, 8000, 440.0)
	resampler := NewResampler(src, 48000)

	buf := make([]float32, 1024)
	var totalSamples int

	for {
		n, err := resampler.ReadSamples(buf)
		totalSamples += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	expected := 48000
	tolerance := 600
	if totalSamples < expected-tolerance || totalSamples > expected+tolerance {
		t.Errorf("Total samples = %d, want ≈%d (±%d)", totalSamples, expected, tolerance)
	}
}

func TestResampler_MultiChannelPreservation(t *testing.T) {
	t.Parallel()

	src := newMockSource(44100, 6, 1000, func(sample int, channel int) float32 {
		return float32(channel) * 0.1
	})

	resampler := NewResampler(src, 8000)

	if resampler.Channels() != 6 {
		t.Errorf("Resampler.Channels() = %d, want 6", resampler.Channels())
	}

	buf := make([]float32, 60) // 10 frames of 6 channels
	n, err := resampler.ReadSamples(buf)

	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n%6 != 0 {
		t.Errorf("ReadSamples() n = %d, not multiple of 6", n)
	}
}

// TestResampler_MinimalAllocs verifies allocations stay low once the
// internal scratch buffers have grown to their steady-state size.
func TestResampler_MinimalAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	src := newSineSource(44100, 2, 1000000, 440.0)
	resampler := NewResampler(src, 8000)
	buf := make([]float32, 4096)

	resampler.ReadSamples(buf) // warm up internal buffers

	allocs := testing.AllocsPerRun(100, func() {
		src.Reset()
		_, _ = resampler.ReadSamples(buf)
	})

	if allocs > 1 {
		t.Logf("Warning: Resampler.ReadSamples() allocated %v times (should be minimal)", allocs)
	}
}

// BenchmarkResampler_Downsample benchmarks downsampling 44.1kHz -> 8kHz
func BenchmarkResampler_Downsample(b *testing.B) {
	src := newSineSource(44100, 2, 100000, 440.0)
	resampler := NewResampler(src, 8000)
	buf := make([]float32, 4096)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		src.Reset()
		for {
			_, err := resampler.ReadSamples(buf)
			if err == io.EOF {
				break
			}
		}
	}
}

// BenchmarkResampler_Upsample benchmarks upsampling 8kHz -> 44.1kHz
func BenchmarkResampler_Upsample(b *testing.B) {
	src := newSineSource(8000, 2, 20000, 440.0)
	resampler := NewResampler(src, 44100)
	buf := make([]float32, 4096)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		src.Reset()
		for {
			_, err := resampler.ReadSamples(buf)
			if err == io.EOF {
				break
			}
		}
	}
}

// BenchmarkResampler_ReadSamples benchmarks a single ReadSamples call
func BenchmarkResampler_ReadSamples(b *testing.B) {
	src := newSineSource(44100, 2, 1000000, 440.0)
	resampler := NewResampler(src, 8000)
	buf := make([]float32, 4096)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		src.Reset()
		_, _ = resampler.ReadSamples(buf)
	}
}

// BenchmarkResampler_MultiChannel benchmarks resampling with many channels
func BenchmarkResampler_MultiChannel(b *testing.B) {
	src := newMockSource(44100, 8, 100000, func(sample int, channel int) float32 {
		return float32(sample%100) / 100.0
	})
	resampler := NewResampler(src, 8000)
	buf := make([]float32, 4096)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		src.Reset()
		for {
			_, err := resampler.ReadSamples(buf)
			if err == io.EOF {
				break
			}
		}
	}
}

// BenchmarkResampler_SmallBuffer benchmarks with very small buffers
func BenchmarkResampler_SmallBuffer(b *testing.B) {
	src := newSineSource(44100, 2, 100000, 440.0)
	resampler := NewResampler(src, 8000)
	buf := make([]float32, 64)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		src.Reset()
		for {
			_, err := resampler.ReadSamples(buf)
			if err == io.EOF {
				break
			}
		}
	}
}
