package mathx

import "golang.org/x/exp/constraints"

// CeilDiv returns ceil(a/b) for non-negative a and positive b; b == 0 yields 0.
func CeilDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// NextPow2 returns the smallest power of two >= v, with a floor of 2.
func NextPow2(v int) int {
	n := 2
	for n < v {
		n <<= 1
	}
	return n
}
