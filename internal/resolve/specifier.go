package resolve

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tells which half of a record a Specifier is matched against.
type Kind int

const (
	// None is the zero Specifier: nothing was supplied.
	None Kind = iota
	// ByID matches the record's numeric id.
	ByID
	// ByName matches the record's name, case-sensitively.
	ByName
)

// Specifier is a user-supplied reference to one remote record, either by id
// or by name. The zero value specifies nothing.
type Specifier struct {
	kind Kind
	id   int64
	name string
}

// ID returns a Specifier matching the record whose id equals id.
func ID(id int64) Specifier {
	return Specifier{kind: ByID, id: id}
}

// Name returns a Specifier matching the record whose name equals name.
func Name(name string) Specifier {
	return Specifier{kind: ByName, name: name}
}

// Parse normalizes a decoded recipe value into a Specifier. Integers and
// stringified integers become ids; any other string becomes a name.
func Parse(v any) (Specifier, error) {
	switch t := v.(type) {
	case nil:
		return Specifier{}, nil
	case int:
		return ID(int64(t)), nil
	case int64:
		return ID(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return Specifier{}, fmt.Errorf("id %d out of range", t)
		}
		return ID(int64(t)), nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return Specifier{}, fmt.Errorf("id %v is not an integer", t)
		}
		if t >= math.MaxInt64 || t < math.MinInt64 {
			return Specifier{}, fmt.Errorf("id %v out of range", t)
		}
		return ID(int64(t)), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return Specifier{}, errors.New("empty identifier")
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ID(n), nil
		}
		return Name(t), nil
	default:
		return Specifier{}, fmt.Errorf("identifier must be an integer id or a string name, got %T", v)
	}
}

// Kind returns which field the Specifier matches.
func (s Specifier) Kind() Kind { return s.kind }

// IsZero reports whether nothing was specified.
func (s Specifier) IsZero() bool { return s.kind == None }

// IDValue returns the id and true for ByID specifiers.
func (s Specifier) IDValue() (int64, bool) { return s.id, s.kind == ByID }

// NameValue returns the name and true for ByName specifiers.
func (s Specifier) NameValue() (string, bool) { return s.name, s.kind == ByName }

func (s Specifier) String() string {
	switch s.kind {
	case ByID:
		return "id " + strconv.FormatInt(s.id, 10)
	case ByName:
		return strconv.Quote(s.name)
	default:
		return "<none>"
	}
}

// Selector carries an id and/or a name for one logical lookup. Either half may
// be zero; when both are set and disagree the id wins.
type Selector struct {
	ID   Specifier
	Name Specifier
}

// Of wraps a single either-or Specifier into a Selector.
func Of(s Specifier) Selector {
	if s.kind == ByID {
		return Selector{ID: s}
	}
	return Selector{Name: s}
}

// IsZero reports whether neither half was supplied.
func (sel Selector) IsZero() bool {
	return sel.ID.IsZero() && sel.Name.IsZero()
}

func (sel Selector) String() string {
	switch {
	case !sel.ID.IsZero() && !sel.Name.IsZero():
		return sel.ID.String() + " / " + sel.Name.String()
	case !sel.ID.IsZero():
		return sel.ID.String()
	default:
		return sel.Name.String()
	}
}
