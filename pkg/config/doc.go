// Package config implements the declarative configuration core of the
// loopcast media server.
//
// A configuration is a tree of typed value slots (Value) grouped into
// composite nodes (Node). The shape of the tree is fixed by a schema at
// construction time; a Binder then walks a parsed document (Element) and the
// schema tree in lockstep, filling in every field the document supplies.
// Each slot remembers whether it was explicitly set by the document or left
// at its default, which is what makes effective-configuration dumps and
// include-file layering possible.
//
// Once a tree has been published for concurrent reads it is frozen with
// Node.Freeze. A frozen tree is immutable; mutating it is a programming
// error and panics. Reconfiguration always builds a fresh tree instead of
// touching a published one.
package config
