// Package recipe validates decoded recipe data and splits it into the project
// directive and the ordered task list.
//
// Recipes arrive as the generic structure every decoder in this module
// produces: a []any of map[string]any elements. The first element holding a
// "project" key is the directive; every other element is a task.
package recipe
