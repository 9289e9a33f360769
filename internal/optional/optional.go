package optional

// Optional holds a value that may be absent. The zero value is None.
type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

func (self Optional[T]) Value() T {
	return self.value
}

// Get returns the value and whether it is present, for use in if-statements.
func (self Optional[T]) Get() (T, bool) {
	return self.value, self.present
}

// OrElse returns the value when present and fallback otherwise.
func (self Optional[T]) OrElse(fallback T) T {
	if !self.present {
		return fallback
	}
	return self.value
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Map applies f to a present value.
func Map[T any, U any](o Optional[T], f func(T) U) Optional[U] {
	if !o.present {
		return None[U]()
	}
	return Some(f(o.value))
}
