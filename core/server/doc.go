// Package server holds configuration for the HTTP server layer.
//
// It is intentionally small: the Fiber app itself is assembled in cmd/start.go;
// this package only carries the settings (port, API key) that the assembly needs.
package server
