package util

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
//
// If cloneSize is smaller than the length of src, only the first cloneSize elements are copied.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// GrowCapacity returns the next capacity for a container that is full at capacity cur.
//
// The capacity is doubled, but never grows to less than floor. The result is clamped to limit;
// the second return value is false if cur is already at (or above) limit and cannot grow further.
func GrowCapacity(cur int, floor int, limit int) (int, bool) {
	if cur >= limit {
		return cur, false
	}

	next := cur * 2
	if next < floor {
		next = floor
	}
	// cur*2 may wrap around for huge values
	if next > limit || next < cur {
		next = limit
	}

	return next, true
}

// WrapIndex returns (idx + n) modulo size for non-negative idx and n.
// It returns 0 when size is 0.
func WrapIndex(idx int, n int, size int) int {
	if size <= 0 {
		return 0
	}

	return (idx + n) % size
}
