package config

import "fmt"

// FilesystemError is returned when a configuration file cannot be read.
type FilesystemError struct {
	Filename string
	Err      error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to read config file %s: %v", e.Filename, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// ParseError is returned when a configuration file is not valid YAML or does
// not describe a valid configuration. Structural failures wrap a
// *schema.AggregateError.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse config file %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NoLanguagesError is returned for a Root document with an empty language map.
type NoLanguagesError struct {
	Filename string
}

func (e *NoLanguagesError) Error() string {
	return fmt.Sprintf("root config %s does not declare any languages", e.Filename)
}

// RootLinksToRootError is returned when a Root document references a file
// that is itself a Root document.
type RootLinksToRootError struct {
	Filename string
	Linked   string
}

func (e *RootLinksToRootError) Error() string {
	return fmt.Sprintf("root config %s links to %s, which is also a root config", e.Filename, e.Linked)
}
