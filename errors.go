// File: conftree/errors.go
package conftree

import "errors"

// Sentinel errors for the failure categories of the package. Returned errors
// wrap one of these and carry key, prefix and source context in the message;
// test the category with errors.Is.
var (
	// ErrNotFound reports a read-only lookup of a value key or subtree
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCollision reports a path segment used as a value key where a
	// subtree is required, or the other way around.
	ErrCollision = errors.New("occurs as value and as subtree")

	// ErrParse reports a stored string that cannot be converted to the
	// requested type, or foreign-format input the tree cannot represent.
	ErrParse = errors.New("cannot parse")

	// ErrDuplicateKey reports a full key appearing twice in one source.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrFileOpen reports a named configuration source that could not be
	// opened. The underlying os error is wrapped as well.
	ErrFileOpen = errors.New("cannot open configuration file")

	// ErrOption reports malformed, unknown, repeated or missing
	// command-line parameters. The message includes the usage text.
	ErrOption = errors.New("invalid option")

	// ErrHelp reports that -h or --help was given. The message is the
	// usage text; callers print it and exit rather than treat it as a
	// failure.
	ErrHelp = errors.New("help requested")
)
