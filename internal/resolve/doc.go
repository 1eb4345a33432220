// Package resolve matches a user-supplied id-or-name reference against a
// collection fetched from the farm and insists on exactly one match.
//
// The same algorithm backs project, device group, device and framework
// selection, and the translation of parameter keys into parameter ids.
package resolve
