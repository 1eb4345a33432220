// Package registry is the capability table of the dispatcher.
//
// Every action a recipe may name is a value of the closed Action type. Modules
// register one handler per Action together with a decoder that turns the
// task's raw arguments into a typed value. Binding happens once, before any
// task runs, so argument defects surface before the remote farm is touched.
// An action name with no registered handler binds to an unimplemented Step;
// the dispatcher reports it when that step is reached.
package registry
