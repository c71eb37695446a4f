// Package config loads Tribble configuration documents.
//
// A configuration file is either a Root document that maps locales to
// language files, or a Language document that holds the workflows for one
// language. Both are YAML. Load parses a single document, following the
// language files of a Root document to check they exist and are not Roots
// themselves. LoadBundle returns the Root together with every language it
// references, which is what the runtime works from.
//
// Documents are decoded by shape: a scalar section element is text, a
// mapping with an id is an input, a mapping with a link is a progression.
// Structural problems are collected into a schema.AggregateError so a single
// run reports all of them.
package config
