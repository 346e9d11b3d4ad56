package domain

// FetchResult carries the outcome of one fetch: a value or an error, never both.
type FetchResult[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) FetchResult[T] { return FetchResult[T]{Value: v} }

// Fail wraps an error; the value is left at its zero value.
func Fail[T any](err error) FetchResult[T] { return FetchResult[T]{Err: err} }

// Unwrap returns the value and error as a pair.
func (r FetchResult[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}
