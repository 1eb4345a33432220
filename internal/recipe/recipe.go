package recipe

import (
	"fmt"
	"strings"
)

// Status selects whether the directive creates a project or binds one.
type Status string

const (
	StatusNew      Status = "new"
	StatusExisting Status = "existing"
)

// credentialPrefix marks directive arguments that configure the client
// rather than the project.
const credentialPrefix = "TESTDROID_"

// Directive is the project directive of a recipe.
type Directive struct {
	Status    Status
	Arguments map[string]any
	// Credentials holds TESTDROID_* keys lifted out of the arguments.
	Credentials map[string]string
}

// Task is one action of a recipe. Index is its position in the raw sequence.
type Task struct {
	Index     int
	Action    string
	Arguments map[string]any
}

// Recipe is a validated recipe. It is not modified after Load.
type Recipe struct {
	Directive Directive
	Tasks     []Task
}

// Load validates raw and splits it into a directive and tasks in their
// original order.
func Load(raw any) (*Recipe, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, &Error{Defect: NotSequence, Index: -1, Detail: fmt.Sprintf("got %T", raw)}
	}

	dirIdx := -1
	for i, item := range items {
		if m, ok := item.(map[string]any); ok {
			if _, has := m["project"]; has {
				dirIdx = i
				break
			}
		}
	}
	if dirIdx < 0 {
		return nil, &Error{Defect: NoDirective, Index: -1}
	}

	dir, err := loadDirective(dirIdx, items[dirIdx].(map[string]any))
	if err != nil {
		return nil, err
	}

	r := &Recipe{Directive: dir, Tasks: make([]Task, 0, len(items)-1)}
	for i, item := range items {
		if i == dirIdx {
			continue
		}
		t, err := loadTask(i, item)
		if err != nil {
			return nil, err
		}
		r.Tasks = append(r.Tasks, t)
	}
	return r, nil
}

func loadDirective(idx int, m map[string]any) (Directive, error) {
	status, _ := m["project"].(string)
	switch Status(status) {
	case StatusNew, StatusExisting:
	default:
		return Directive{}, &Error{Defect: BadStatus, Index: idx, Detail: fmt.Sprintf("%v", m["project"])}
	}

	raw, present := m["arguments"]
	args, ok := asMapping(raw)
	if !present || !ok {
		return Directive{}, &Error{Defect: BadArguments, Index: idx, Detail: "project directive"}
	}

	d := Directive{Status: Status(status), Arguments: map[string]any{}, Credentials: map[string]string{}}
	for k, v := range args {
		if strings.HasPrefix(k, credentialPrefix) {
			d.Credentials[k] = fmt.Sprint(v)
			continue
		}
		d.Arguments[k] = v
	}
	return d, nil
}

func loadTask(idx int, item any) (Task, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return Task{}, &Error{Defect: TaskNotMapping, Index: idx, Detail: fmt.Sprintf("got %T", item)}
	}

	action, ok := m["action"].(string)
	if !ok || action == "" {
		return Task{}, &Error{Defect: MissingAction, Index: idx}
	}

	raw, present := m["arguments"]
	if !present {
		return Task{}, &Error{Defect: MissingArguments, Index: idx, Action: action}
	}
	args, ok := asMapping(raw)
	if !ok {
		return Task{}, &Error{Defect: BadArguments, Index: idx, Action: action, Detail: fmt.Sprintf("got %T", raw)}
	}
	return Task{Index: idx, Action: action, Arguments: args}, nil
}

// asMapping accepts a mapping or an empty value such as a bare "arguments:".
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case nil:
		return map[string]any{}, true
	default:
		return nil, false
	}
}
