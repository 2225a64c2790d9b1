package lib

import "strings"

// Command captures everything needed to launch an external program.
// It is constructed by the caller and is not mutated once a dispatch begins.
type Command struct {
	// Path is the program to execute. It is handed to the exec
	// primitive as-is; no lexing or expansion happens in this library.
	Path string
	// Args are the program arguments, not including the program name.
	Args []string
	// Env holds extra KEY=VALUE entries appended to the inherited
	// environment. nil means inherit unchanged.
	Env []string
	// Dir is the working directory for the program. Empty means inherit.
	Dir string
}

// String renders the full command line, mainly for logs.
func (c Command) String() string {
	all := append([]string{c.Path}, c.Args...)
	return strings.TrimSpace(strings.Join(all, " "))
}
