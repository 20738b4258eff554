// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"cmp"
	"strconv"
)

// Clamp bounds v to the closed interval [lo, hi]. When lo > hi the result is
// lo, matching the order in which the bounds are applied.
//
// Example:
//
//	utils.Clamp(100, 0, 10) // 10
//	utils.Clamp(-3, 0, 10)  // 0
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ParseNonNegative parses s as a base-10 non-negative integer that fits in an
// int. Signs, whitespace, and empty input are rejected with the underlying
// *strconv.NumError.
//
// Example:
//
//	n, err := utils.ParseNonNegative("42") // 42, nil
//	_, err = utils.ParseNonNegative("-1")  // strconv.ParseUint: parsing "-1": invalid syntax
func ParseNonNegative(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
