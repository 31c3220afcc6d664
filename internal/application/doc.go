// Package application runs the composition pipeline (options, plugins,
// extensions, documentation options, assembly) and wires the serve-mode
// storage, handlers, router and HTTP server, keeping the main package focused
// on CLI parsing and output.
package application
