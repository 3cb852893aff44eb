// Package types defines the entity structs, enumerations, sentinel errors,
// and the remote transport interface for the satchel context store.
// See docs/ARCHITECTURE.md § Data Model.
package types
