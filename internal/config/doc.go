// Package config defines how recipe files become the generic decoded
// structure the recipe package validates.
//
// A Loader handles one file format. Mux picks a Loader by file extension, so
// the rest of the application never needs to know which format a recipe was
// written in. Concrete loaders live in separate packages (hcl, yamlfile).
package config
