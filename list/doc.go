// Package list provides List, a generic dynamic array of fixed-size items.
//
// A List separates its capacity (allocated slots) from its length (appended items) and allows
// reading and writing any allocated slot by index. It is the backing store of the ring queue in
// package queue, which does its own index bookkeeping on top of the raw slots.
//
// Usage Example:
//
//	l, _ := list.New[int](4)
//	_ = l.Append(1)
//	_ = l.Set(3, 42) // raw slot write, length stays 1
//	v, _ := l.Get(3) // 42
package list
