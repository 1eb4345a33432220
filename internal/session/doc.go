// Package session holds the identity and configuration of one remote project
// for the length of one recipe run.
//
// A Session moves through Uninitialized, Identified, Configured, Started and
// Terminal, never backwards. Every id/name pair it stores comes from a single
// resolved remote record, so both halves always describe the same thing.
//
// Operations report failures as the closed error types in errors.go. Remote
// failures that are not wrapped surface as *testdroid.APIError.
package session
