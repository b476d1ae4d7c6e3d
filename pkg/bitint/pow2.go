// SPDX-License-Identifier: MIT
/*
Package bitint provides the power-of-2 arithmetic used to size the
circular history windows of the resampling engine and to validate FFT
sizes for the analysis report.

Usage:

	// Largest window that fits inside a buffer of n samples
	capacity := bitint.PrevPowerOfTwo(n)

	// Wrap a write cursor without a modulo
	mask := capacity - 1
	write = (write + 1) & mask

	// Verify an FFT size
	ok := bitint.IsPowerOfTwo(fftSize)

----------------------------------------------------------------------

What this code does:

	NextPowerOfTwo returns the smallest power of 2 >= size. The
	subtraction (size-1) keeps exact powers of 2 unchanged:

	- For input 8: size-1 = 7 (0111), bits.Len(7) = 3, 1<<3 = 8
	- Without it: bits.Len(8) = 4, 1<<4 = 16 (doubled)

	PrevPowerOfTwo returns the largest power of 2 <= size. Here no
	correction is needed, the highest set bit already is the answer:

	- For input 12 (1100): bits.Len(12) = 4, 1<<(4-1) = 8
	- For input 8 (1000):  bits.Len(8) = 4,  1<<(4-1) = 8
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size.
//
//	Input  Output
//	4      4
//	5      8
//	0      1
//	-1     1
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// PrevPowerOfTwo returns the largest power of 2 <= size, or 0 when size is
// not positive.
//
//	Input  Output
//	12     8
//	8      8
//	1      1
//	0      0
func PrevPowerOfTwo(size int) int {
	if size <= 0 {
		return 0
	}
	return 1 << (bits.Len(uint(size)) - 1)
}

// IsPowerOfTwo checks if n is a power of 2 using bit manipulation.
// The expression (n & (n-1)) == 0 works because:
//   - Powers of 2 have exactly one bit set
//   - Subtracting 1 from a power of 2 sets all lower bits
//   - AND operation will be 0 only for powers of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Mask returns the wrap mask for a power-of-2 capacity. The result is only
// meaningful when IsPowerOfTwo(capacity) holds.
func Mask(capacity int) int {
	return capacity - 1
}
