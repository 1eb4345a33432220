package recipe

import "fmt"

// Defect names what is wrong with a recipe.
type Defect int

const (
	NotSequence Defect = iota + 1
	NoDirective
	BadStatus
	BadArguments
	TaskNotMapping
	MissingAction
	MissingArguments
	BadArgument
)

func (d Defect) String() string {
	switch d {
	case NotSequence:
		return "recipe is not a sequence"
	case NoDirective:
		return "no project directive found"
	case BadStatus:
		return `project must be "new" or "existing"`
	case BadArguments:
		return "arguments must be a mapping"
	case TaskNotMapping:
		return "task is not a mapping"
	case MissingAction:
		return "task has no action"
	case MissingArguments:
		return "task has no arguments"
	case BadArgument:
		return "invalid argument"
	default:
		return "malformed recipe"
	}
}

// Error is a malformed recipe. Index is the position of the offending element
// in the raw sequence, or -1 when the defect is not tied to one element.
type Error struct {
	Defect Defect
	Index  int
	Action string
	Detail string
}

func (e *Error) Error() string {
	msg := "recipe: " + e.Defect.String()
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s (element %d)", msg, e.Index)
	}
	if e.Action != "" {
		msg = fmt.Sprintf("%s in action %q", msg, e.Action)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
