// SPDX-License-Identifier: EPL-2.0

package utils

// InterpCubic fits the unique cubic through four consecutive samples
// taken at x = -1, 0, 1, 2 and evaluates it at x. yvals must hold
// exactly [y(-1), y(0), y(1), y(2)]; x is normally in [0, 1).
func InterpCubic[T Sample](x T, yvals [4]T) T {
	y0, y1, y2, y3 := yvals[0], yvals[1], yvals[2], yvals[3]

	a0 := y1
	a1 := -T(1.0/3.0)*y0 - T(0.5)*y1 + y2 - T(1.0/6.0)*y3
	a2 := T(0.5)*(y0+y2) - y1
	a3 := T(0.5)*(y1-y2) + T(1.0/6.0)*(y3-y0)

	return a0 + a1*x + a2*x*x + a3*x*x*x
}

// InterpLinear linearly interpolates between two samples taken at
// x = 0 and x = 1.
func InterpLinear[T Sample](x T, yvals [2]T) T {
	return (1-x)*yvals[0] + x*yvals[1]
}
