package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no record matched the specifier.
	ErrNotFound = errors.New("no matching record")
	// ErrAmbiguous means more than one record matched the specifier.
	ErrAmbiguous = errors.New("more than one matching record")
	// ErrNoSpecifier means the caller supplied neither an id nor a name.
	ErrNoSpecifier = errors.New("neither id nor name supplied")
)

// Error is a failed resolution. It wraps ErrNotFound, ErrAmbiguous or
// ErrNoSpecifier.
type Error struct {
	Spec    string
	Matches int
	Err     error
}

func (e *Error) Error() string {
	if e.Err == ErrAmbiguous {
		return fmt.Sprintf("%s: %d records match", e.Spec, e.Matches)
	}
	return fmt.Sprintf("%s: %v", e.Spec, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Keys reads the id and name halves of a record.
type Keys[T any] struct {
	ID   func(T) int64
	Name func(T) string
}

// Note qualifies a successful Selector resolution.
type Note int

const (
	// Exact: every supplied half resolved to the returned record.
	Exact Note = iota
	// NameMismatch: the id won; the name matched a different record or none.
	NameMismatch
	// IDMismatch: the id matched nothing; the name alone resolved the record.
	IDMismatch
)

// One returns the single record of items matched by spec.
func One[T any](spec Specifier, items []T, keys Keys[T]) (T, error) {
	var zero T
	if spec.IsZero() {
		return zero, &Error{Spec: spec.String(), Err: ErrNoSpecifier}
	}

	match, n := -1, 0
	for i, item := range items {
		if matches(spec, item, keys) {
			if match < 0 {
				match = i
			}
			n++
		}
	}

	switch n {
	case 0:
		return zero, &Error{Spec: spec.String(), Err: ErrNotFound}
	case 1:
		return items[match], nil
	default:
		return zero, &Error{Spec: spec.String(), Matches: n, Err: ErrAmbiguous}
	}
}

// Select resolves a Selector. With both halves set, the id match is returned
// when the halves disagree, and the Note records that the name did not
// corroborate it.
func Select[T any](sel Selector, items []T, keys Keys[T]) (T, Note, error) {
	var zero T
	switch {
	case sel.IsZero():
		return zero, Exact, &Error{Spec: sel.String(), Err: ErrNoSpecifier}
	case sel.Name.IsZero():
		rec, err := One(sel.ID, items, keys)
		return rec, Exact, err
	case sel.ID.IsZero():
		rec, err := One(sel.Name, items, keys)
		return rec, Exact, err
	}

	byID, idErr := One(sel.ID, items, keys)
	byName, nameErr := One(sel.Name, items, keys)

	switch {
	case idErr == nil && nameErr == nil && keys.ID(byID) == keys.ID(byName):
		return byID, Exact, nil
	case idErr == nil:
		return byID, NameMismatch, nil
	case nameErr == nil:
		return byName, IDMismatch, nil
	default:
		return zero, Exact, idErr
	}
}

// Lookup is the tolerant variant of One: a miss is reported as ok=false
// rather than an error. Ambiguity is still an error.
func Lookup[T any](spec Specifier, items []T, keys Keys[T]) (T, bool, error) {
	rec, err := One(spec, items, keys)
	if errors.Is(err, ErrNotFound) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

func matches[T any](spec Specifier, item T, keys Keys[T]) bool {
	switch spec.kind {
	case ByID:
		return keys.ID(item) == spec.id
	case ByName:
		return keys.Name(item) == spec.name
	default:
		return false
	}
}
