// Package testdroid is the REST client for the remote device farm. Every
// exported method is a single synchronous round trip; failures answered by the
// farm surface as *APIError carrying the HTTP status code.
package testdroid
