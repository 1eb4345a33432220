// Package app wires the recipe loaders, the farm client and the executor
// into one run. It is decoupled from any specific entrypoint like a CLI.
package app
