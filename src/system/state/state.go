// Package state wraps the offline-storage port (interfaces.OfflineStorage)
// with the two typed surfaces the scoring core needs: per-set restoration
// state, restricted to the shapes SCORM objectives can actually carry, and
// the SCORM-objective record itself (description, score, status).
package state

import (
	"fmt"
	"reflect"

	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
)

// InvalidShapeError reports a state value outside the shapes the offline
// storage port accepts: arrays of booleans, arrays of numbers, or arrays of
// such arrays.
type InvalidShapeError struct {
	Kind string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("state: value contains a %s, only booleans, numbers and arrays of those are allowed", e.Kind)
}

// ValidateShape rejects anything that isn't a bool, a number, or a
// slice/array of values that themselves validate.
func ValidateShape(v interface{}) error {
	return validate(reflect.ValueOf(v))
}

func validate(rv reflect.Value) error {
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Interface:
		return validate(rv.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := validate(rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return &InvalidShapeError{Kind: rv.Kind().String()}
	}
}

// State is a lazily owned adapter that reads/writes a single restoration
// value under offlineStorage[namespace][key]. A State built via NewNoop
// (used for intersected clones and whenever the offline-storage port is
// absent) silently discards writes and reads back nothing, per the
// OfflineStorageUnavailable error policy.
type State struct {
	storage   interfaces.OfflineStorage
	namespace string
	key       string
	noop      bool
}

func New(storage interfaces.OfflineStorage, namespace, key string) *State {
	return &State{storage: storage, namespace: namespace, key: key}
}

func NewNoop() *State {
	return &State{noop: true}
}

// Read returns the stored value and true if one was found, ready, and
// deserialized successfully.
func (s *State) Read(out interface{}) (bool, error) {
	if s.noop || s.storage == nil || !s.storage.Ready() {
		return false, nil
	}
	raw, ok := s.storage.Get(s.namespace, s.key)
	if !ok {
		return false, nil
	}
	if err := s.storage.Deserialize(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// Write validates value's shape, serializes it through the offline-storage
// port, and stores it. Writing through a noop adapter, or when the
// underlying port is absent, succeeds silently without persisting.
func (s *State) Write(value interface{}) error {
	if s.noop || s.storage == nil {
		return nil
	}
	if err := ValidateShape(value); err != nil {
		return err
	}
	raw, err := s.storage.Serialize(value)
	if err != nil {
		return err
	}
	return s.storage.Set(s.namespace, s.key, raw)
}
