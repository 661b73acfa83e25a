package quickbase

import (
	"errors"
	"iter"
)

// ErrEmptyIterator is returned by First when the iterator yields no items.
var ErrEmptyIterator = errors.New("quickbase: iterator is empty")

// Collect gathers every record of a Query iterator. On error it returns the
// records collected so far along with the error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	return CollectN(seq, -1)
}

// CollectN gathers up to n items; a negative n means no limit.
func CollectN[T any](seq iter.Seq2[T, error], n int) ([]T, error) {
	var result []T
	if n >= 0 {
		result = make([]T, 0, n)
	}
	for item, err := range seq {
		if err != nil {
			return result, err
		}
		result = append(result, item)
		if n >= 0 && len(result) >= n {
			break
		}
	}
	return result, nil
}

// First returns the first item of seq.
func First[T any](seq iter.Seq2[T, error]) (T, error) {
	for item, err := range seq {
		return item, err
	}
	var zero T
	return zero, ErrEmptyIterator
}

// Take stops seq after n items. Pages beyond the nth item are never fetched.
func Take[T any](seq iter.Seq2[T, error], n int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if n <= 0 {
			return
		}
		count := 0
		for item, err := range seq {
			if !yield(item, err) || err != nil {
				return
			}
			count++
			if count >= n {
				return
			}
		}
	}
}
