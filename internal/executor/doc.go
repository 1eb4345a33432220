// Package executor is the action dispatcher. It binds a recipe's tasks to
// their handlers, establishes the project session from the directive and runs
// the tasks strictly in order.
//
// Failures are contained per task: remote errors and project, device,
// framework and file errors are logged and the run moves on. Test run errors,
// unimplemented actions, malformed recipes and errors of unknown origin abort
// the run.
package executor
