// SPDX-License-Identifier: EPL-2.0

package utils

// Sample is the set of floating-point types the resampling and
// interpolation helpers are generic over.
type Sample interface {
	~float32 | ~float64
}
