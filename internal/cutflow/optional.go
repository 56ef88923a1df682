package cutflow

import (
	"encoding/json"
	"fmt"
)

// Optional holds a value that a report may legitimately leave out.
// The zero value is Absent.
type Optional[T any] struct {
	value T
	ok    bool
}

// Present wraps a value that was found.
func Present[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// Absent is the explicit "no value" marker.
func Absent[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Optional[T]) IsPresent() bool { return o.ok }

// OrElse returns the value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Ptr returns a pointer to a copy of the value, nil when absent.
func (o Optional[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.value
	return &v
}

func (o Optional[T]) String() string {
	if !o.ok {
		return "absent"
	}
	return fmt.Sprint(o.value)
}

// MarshalJSON encodes an absent value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as absent.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Absent[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Present(v)
	return nil
}
