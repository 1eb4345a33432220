package registry

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/specialistvlad/devicefarm/internal/recipe"
	"github.com/specialistvlad/devicefarm/internal/resolve"
)

// Arguments reads one task's raw arguments. Accessors record defects instead
// of returning them; Err reports every defect at once along with any keys
// no accessor asked for.
type Arguments struct {
	task recipe.Task
	seen map[string]bool
	errs []string
}

// NewArguments wraps a task's arguments.
func NewArguments(t recipe.Task) *Arguments {
	return &Arguments{task: t, seen: make(map[string]bool)}
}

func (a *Arguments) get(key string) (any, bool) {
	a.seen[key] = true
	v, ok := a.task.Arguments[key]
	return v, ok && v != nil
}

func (a *Arguments) fail(format string, args ...any) {
	a.errs = append(a.errs, fmt.Sprintf(format, args...))
}

// Has reports whether key is present with a non-empty value.
func (a *Arguments) Has(key string) bool {
	_, ok := a.get(key)
	return ok
}

// Require records a defect for each key that is absent.
func (a *Arguments) Require(keys ...string) {
	for _, k := range keys {
		if !a.Has(k) {
			a.fail("%s is required", k)
		}
	}
}

// String returns the string at key, or "" when absent.
func (a *Arguments) String(key string) string {
	v, ok := a.get(key)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case int, int64, float64, bool:
		return fmt.Sprint(s)
	default:
		a.fail("%s must be a string, got %T", key, v)
		return ""
	}
}

// Bool returns the boolean at key, or def when absent. The strings "true"
// and "false" are accepted.
func (a *Arguments) Bool(key string, def bool) bool {
	v, ok := a.get(key)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		if err == nil {
			return parsed
		}
	}
	a.fail("%s must be a boolean, got %v", key, v)
	return def
}

// Int returns the whole number at key, or def when absent.
func (a *Arguments) Int(key string, def int64) int64 {
	v, ok := a.get(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n)
		}
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
		if n == math.Trunc(n) && n < math.MaxInt64 && n >= math.MinInt64 {
			return int64(n)
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i
		}
	}
	a.fail("%s must be a whole number, got %v", key, v)
	return def
}

// Seconds returns the non-negative number of seconds at key as a duration,
// or def when absent.
func (a *Arguments) Seconds(key string, def time.Duration) time.Duration {
	v, ok := a.get(key)
	if !ok {
		return def
	}
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		a.fail("%s must be a number of seconds, got %v", key, v)
		return def
	}
	if f < 0 {
		a.fail("%s must not be negative", key)
		return def
	}
	return time.Duration(f * float64(time.Second))
}

// Specifier returns the id-or-name at key; the zero Specifier when absent.
func (a *Arguments) Specifier(key string) resolve.Specifier {
	v, ok := a.get(key)
	if !ok {
		return resolve.Specifier{}
	}
	s, err := resolve.Parse(v)
	if err != nil {
		a.fail("%s: %v", key, err)
	}
	return s
}

// Selector reads the either-or value at base together with the explicit
// base_id and base_name keys. The either-or value fills whichever half it
// belongs to unless that half is given explicitly.
func (a *Arguments) Selector(base string) resolve.Selector {
	sel := resolve.Selector{}
	if a.Has(base + "_id") {
		id := a.Int(base+"_id", 0)
		sel.ID = resolve.ID(id)
	}
	if name := a.String(base + "_name"); name != "" {
		sel.Name = resolve.Name(name)
	}

	either := a.Specifier(base)
	switch either.Kind() {
	case resolve.ByID:
		if sel.ID.IsZero() {
			sel.ID = either
		}
	case resolve.ByName:
		if sel.Name.IsZero() {
			sel.Name = either
		}
	}
	return sel
}

// RequireSelector is Selector with a defect recorded when nothing was given.
func (a *Arguments) RequireSelector(base string) resolve.Selector {
	sel := a.Selector(base)
	if sel.IsZero() {
		a.fail("provide one of: %[1]s, %[1]s_id, %[1]s_name", base)
	}
	return sel
}

// Map returns the mapping at key, or nil when absent.
func (a *Arguments) Map(key string) map[string]any {
	v, ok := a.get(key)
	if !ok {
		return nil
	}
	m, isMap := v.(map[string]any)
	if !isMap {
		a.fail("%s must be a mapping, got %T", key, v)
	}
	return m
}

// List returns the sequence at key, or nil when absent.
func (a *Arguments) List(key string) []any {
	v, ok := a.get(key)
	if !ok {
		return nil
	}
	l, isList := v.([]any)
	if !isList {
		a.fail("%s must be a list, got %T", key, v)
	}
	return l
}

// Rest returns, in sorted order, the keys no accessor has read yet and marks
// them read. Handlers with open-ended argument sets use it.
func (a *Arguments) Rest() []string {
	var keys []string
	for k := range a.task.Arguments {
		if !a.seen[k] {
			keys = append(keys, k)
			a.seen[k] = true
		}
	}
	slices.Sort(keys)
	return keys
}

// Raw returns the value at key without conversion.
func (a *Arguments) Raw(key string) any {
	v, _ := a.get(key)
	return v
}

// Fail records a handler-specific defect.
func (a *Arguments) Fail(format string, args ...any) {
	a.fail(format, args...)
}

// Err returns every recorded defect, and one for each unread key, as a
// single *recipe.Error. It returns nil when the arguments were well formed.
func (a *Arguments) Err() error {
	errs := slices.Clone(a.errs)
	var unknown []string
	for k := range a.task.Arguments {
		if !a.seen[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		errs = append(errs, "unexpected arguments: "+strings.Join(unknown, ", "))
	}
	if len(errs) == 0 {
		return nil
	}
	return &recipe.Error{
		Defect: recipe.BadArgument,
		Index:  a.task.Index,
		Action: a.task.Action,
		Detail: strings.Join(errs, "; "),
	}
}
