// Package shared holds the context passed to all CLI commands.
package shared

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the ctxmenu home directory.
	// When empty, resolution falls through to CTXMENU_HOME env var → persisted config → ~/.ctxmenu.
	Home string
}
