// Package satchel exposes build-level metadata for the satchel tool.
package satchel

// Version is the satchel release version. Overridden at build time via
// -ldflags "-X github.com/mesh-intelligence/satchel/pkg/satchel.Version=...".
var Version = "0.3.0"
