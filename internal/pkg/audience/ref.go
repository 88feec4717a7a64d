package audience

import (
	"encoding/json"
	"fmt"
)

// Ref is a reference field that the backend may deliver either as a raw id
// string or as a populated object. All reads of such fields narrow through
// this type instead of inspecting the raw JSON shape in place.
type Ref[T any] struct {
	id        string
	value     *T
	populated bool
}

// RefID builds a reference holding only an id.
func RefID[T any](id string) Ref[T] {
	return Ref[T]{id: id}
}

// RefValue builds a reference holding a populated object.
func RefValue[T any](v T) Ref[T] {
	return Ref[T]{value: &v, populated: true}
}

// IsZero reports whether the reference is absent entirely.
func (r Ref[T]) IsZero() bool {
	return !r.populated && r.id == ""
}

// Populated returns the embedded object and whether one was present.
func (r Ref[T]) Populated() (T, bool) {
	if r.populated {
		return *r.value, true
	}
	var zero T
	return zero, false
}

// ID returns the raw id. For populated references the caller supplies an
// extractor so the id can be read off the object.
func (r Ref[T]) ID(fromValue func(T) string) string {
	if r.populated {
		return fromValue(*r.value)
	}
	return r.id
}

// UnmarshalJSON accepts a JSON string or number (raw id), an object
// (populated value) or null (absent reference).
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ref[T]{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = RefID[T](id)
		return nil
	}
	if len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')) {
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		*r = RefID[T](num.String())
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("ref: expected id string or object: %w", err)
	}
	*r = RefValue(v)
	return nil
}

// MarshalJSON writes the populated object when present, otherwise the raw id.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.populated {
		return json.Marshal(r.value)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}
