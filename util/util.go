package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Clamp[A constraints.Ordered](value, min, max A) A {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}
