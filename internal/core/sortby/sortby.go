// Package sortby sorts slices by a derived key with nulls kept last
package sortby

import (
	"cmp"
	"slices"
	"time"
)

// Key extracts a sort key from an element, false means the value is null
type Key[T any, K any] func(T) (K, bool)

// Ordered sorts xs in place by key
// null keys sort after every non null key in both directions
// equal keys keep their relative order
func Ordered[T any, K cmp.Ordered](xs []T, key Key[T, K], asc bool) []T {
	return By(xs, key, cmp.Compare[K], asc)
}

// Times sorts xs in place by a time key with the same rules as Ordered
func Times[T any](xs []T, key Key[T, time.Time], asc bool) []T {
	return By(xs, key, func(a, b time.Time) int { return a.Compare(b) }, asc)
}

// By sorts xs in place using compare on keys
func By[T any, K any](xs []T, key Key[T, K], compare func(a, b K) int, asc bool) []T {
	slices.SortStableFunc(xs, func(a, b T) int {
		ka, oka := key(a)
		kb, okb := key(b)
		switch {
		case !oka && !okb:
			return 0
		case !oka:
			return 1
		case !okb:
			return -1
		}
		c := compare(ka, kb)
		if !asc {
			c = -c
		}
		return c
	})
	return xs
}

// NonZero wraps a key so the zero value of K counts as null
func NonZero[T any, K comparable](get func(T) K) Key[T, K] {
	return func(x T) (K, bool) {
		var zero K
		k := get(x)
		return k, k != zero
	}
}

// Ptr wraps a pointer key so nil counts as null
func Ptr[T any, K any](get func(T) *K) Key[T, K] {
	return func(x T) (K, bool) {
		p := get(x)
		if p == nil {
			var zero K
			return zero, false
		}
		return *p, true
	}
}
