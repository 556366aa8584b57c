// SPDX-License-Identifier: EPL-2.0

package resample

import (
	"math"

	"github.com/ik5/audpbx/utils"
)

// Window selects the analytic window used to taper the sinc kernel
// before it is de-interleaved into the polyphase filter bank.
type Window int

const (
	// Blackman is the classic 3-term Blackman window.
	Blackman Window = iota
	// BlackmanHarris is the 4-term Blackman-Harris window used in the
	// worked example of the filter bank builder.
	BlackmanHarris
	// BlackmanHarris2 applies the BlackmanHarris shape twice (squared),
	// trading mainlobe width for deeper sidelobe suppression.
	BlackmanHarris2
	// Hann is the raised-cosine Hann window.
	Hann
	// Hann2 applies the Hann shape twice (squared).
	Hann2
)

// String returns the window's name, mostly useful for diagnostics.
func (w Window) String() string {
	switch w {
	case Blackman:
		return "Blackman"
	case BlackmanHarris:
		return "BlackmanHarris"
	case BlackmanHarris2:
		return "BlackmanHarris2"
	case Hann:
		return "Hann"
	case Hann2:
		return "Hann2"
	default:
		return "Unknown"
	}
}

// makeWindow evaluates the selected window on [0, npoints).
func makeWindow[T utils.Sample](w Window, npoints int) []T {
	switch w {
	case Blackman:
		return blackmanWindow[T](npoints)
	case BlackmanHarris:
		return blackmanHarrisWindow[T](npoints)
	case BlackmanHarris2:
		return squared(blackmanHarrisWindow[T](npoints))
	case Hann:
		return hannWindow[T](npoints)
	case Hann2:
		return squared(hannWindow[T](npoints))
	default:
		return blackmanHarrisWindow[T](npoints)
	}
}

func squared[T utils.Sample](w []T) []T {
	for i, v := range w {
		w[i] = v * v
	}
	return w
}

// blackmanWindow computes the classic 3-term Blackman window.
func blackmanWindow[T utils.Sample](npoints int) []T {
	window := make([]T, npoints)
	pi2 := T(2.0 * math.Pi)
	pi4 := T(4.0 * math.Pi)
	npF := T(npoints)
	a, b, c := T(0.42), T(0.5), T(0.08)

	for x := range window {
		xf := T(x)
		window[x] = a - b*cosT(pi2*xf/npF) + c*cosT(pi4*xf/npF)
	}
	return window
}

// blackmanHarrisWindow computes the 4-term Blackman-Harris window
// described in the filter bank builder.
func blackmanHarrisWindow[T utils.Sample](npoints int) []T {
	window := make([]T, npoints)
	pi2 := T(2.0 * math.Pi)
	pi4 := T(4.0 * math.Pi)
	pi6 := T(6.0 * math.Pi)
	npF := T(npoints)
	a, b, c, d := T(0.35875), T(0.48829), T(0.14128), T(0.01168)

	for x := range window {
		xf := T(x)
		window[x] = a - b*cosT(pi2*xf/npF) + c*cosT(pi4*xf/npF) - d*cosT(pi6*xf/npF)
	}
	return window
}

// hannWindow computes the raised-cosine Hann window.
func hannWindow[T utils.Sample](npoints int) []T {
	window := make([]T, npoints)
	pi2 := T(2.0 * math.Pi)
	npF := T(npoints)
	half := T(0.5)

	for x := range window {
		xf := T(x)
		window[x] = half - half*cosT(pi2*xf/npF)
	}
	return window
}

func cosT[T utils.Sample](x T) T {
	return T(math.Cos(float64(x)))
}
