// Package files expands configured source paths, which may name a
// single export file or a directory of them, into the concrete file
// lists the loader consumes.
package files
